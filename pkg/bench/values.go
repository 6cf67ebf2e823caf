package bench

import (
	"fmt"
	"strings"
	"time"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/data"
)

// Small embedded vocabularies keep name-like values realistic while
// staying fully deterministic under the stream.
var (
	cityNames = []string{
		"Springfield", "Riverton", "Fairview", "Lakewood", "Georgetown",
		"Arlington", "Ashland", "Burlington", "Clayton", "Dayton",
		"Franklin", "Greenville", "Kingston", "Madison", "Oakland", "Salem",
	}
	stateAbbrs = []string{
		"AL", "AZ", "CA", "CO", "FL", "GA", "IL", "MA",
		"MI", "NY", "OH", "OR", "PA", "TX", "WA", "WI",
	}
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer",
		"Michael", "Linda", "David", "Elizabeth", "William", "Barbara",
		"Richard", "Susan", "Joseph", "Jessica",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
		"Gonzalez", "Wilson", "Anderson", "Thomas",
	}
)

// timestamps are drawn from a fixed five-year window so generated
// values never depend on the wall clock.
var (
	timeWindowStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	timeWindowEnd   = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func clip(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}

// columnValue synthesizes one field value satisfying the column's type
// and length, with name heuristics for realistic-looking data. Every
// draw comes from the stream.
func (g *Generator) columnValue(col data.Column) interface{} {
	name := strings.ToLower(col.Name)
	s := g.stream

	switch {
	case strings.Contains(name, "city"):
		return clip(Choice(s, cityNames), col.Length)
	case strings.Contains(name, "state"):
		return clip(Choice(s, stateAbbrs), col.Length)
	case strings.Contains(name, "zip") || strings.Contains(name, "postal"):
		return clip(s.Digits(9), col.Length)
	case strings.Contains(name, "phone"):
		return clip(fmt.Sprintf("%s-%s-%s", s.Digits(3), s.Digits(3), s.Digits(4)), col.Length)
	case strings.Contains(name, "first"):
		return clip(Choice(s, firstNames), col.Length)
	case strings.Contains(name, "last"):
		return clip(Choice(s, lastNames), col.Length)
	case strings.Contains(name, "email"):
		return clip(fmt.Sprintf("%s%d@example.com", s.Letters(6), s.Intn(1000)), col.Length)
	}

	switch col.Type {
	case "varchar", "char", "text", "bpchar":
		n := col.Length
		if n <= 0 || n > 30 {
			n = 30
		}
		return strings.ToUpper(s.Letters(n))
	case "smallint", "int2":
		return s.IntRange(-32768, 32767)
	case "int", "integer", "int4", "serial":
		return s.IntRange(1, 1000000)
	case "bigint", "int8", "bigserial":
		return int64(s.IntRange(1, 1000000))
	case "numeric", "decimal":
		if col.Precision > 0 {
			maxWhole := int64(1)
			for i := 0; i < col.Precision-col.Scale; i++ {
				maxWhole *= 10
			}
			v := s.Float64() * float64(maxWhole-1)
			scale := 1.0
			for i := 0; i < col.Scale; i++ {
				scale *= 10
			}
			return float64(int64(v*scale)) / scale
		}
		return float64(int64(s.Float64()*1000*100)) / 100
	case "float4", "float8", "real", "double precision":
		return s.Float64() * 1000
	case "timestamp", "timestamptz", "date":
		window := timeWindowEnd.Unix() - timeWindowStart.Unix()
		return time.Unix(timeWindowStart.Unix()+s.Int63n(window), 0).UTC()
	case "boolean", "bool":
		return s.Float64() < 0.5
	}

	if col.Nullable {
		return nil
	}
	return strings.ToUpper(s.Letters(8))
}
