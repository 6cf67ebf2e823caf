package postgres

import (
	"fmt"
	"testing"
)

func TestGetConnectString(t *testing.T) {
	wantHost := "localhost"
	wantDB := "benchmark"
	wantUser := "postgres"
	wantPort := "5432"
	want := fmt.Sprintf("host=%s dbname=%s user=%s sslmode=disable port=5432", wantHost, wantDB, wantUser)
	cases := []struct {
		desc      string
		pgConnect string
	}{
		{
			desc:      "replace host, dbname, user",
			pgConnect: "host=foo dbname=bar user=joe sslmode=disable",
		},
		{
			desc:      "replace just some",
			pgConnect: "host=foo dbname=bar sslmode=disable",
		},
		{
			desc:      "no replace",
			pgConnect: "sslmode=disable",
		},
	}

	for _, c := range cases {
		opts := Opts{Port: wantPort, Host: wantHost, User: wantUser, PostgresConnect: c.pgConnect}
		cstr := opts.GetConnectString(wantDB)
		if cstr != want {
			t.Errorf("%s: incorrect connect string: got %s want %s", c.desc, cstr, want)
		}
	}
}

func TestGetConnectStringPassword(t *testing.T) {
	opts := Opts{Host: "h", User: "u", Pass: "secret", Port: "5433"}
	got := opts.GetConnectString("db")
	want := "host=h dbname=db user=u  port=5433 password=secret"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestDriverSelection(t *testing.T) {
	opts := Opts{}
	if got := opts.Driver(); got != pgxDriver {
		t.Errorf("default driver: got %s want %s", got, pgxDriver)
	}
	opts.ForceTextFormat = true
	if got := opts.Driver(); got != pqDriver {
		t.Errorf("text format driver: got %s want %s", got, pqDriver)
	}
}
