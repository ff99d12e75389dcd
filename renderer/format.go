package renderer

import (
	"fmt"

	"github.com/etnz/coinfolio"
)

// na is printed for values the market did not publish.
const na = "n/a"

func optMoney(m *coinfolio.Money) string {
	if m == nil {
		return na
	}
	return m.String()
}

func optInt(i *int) string {
	if i == nil {
		return na
	}
	return fmt.Sprint(*i)
}

func optString(s *string) string {
	if s == nil || *s == "" {
		return na
	}
	return *s
}

// change formats a price change with an arrow giving its direction.
func change(p *coinfolio.Percent) string {
	switch {
	case p == nil:
		return na
	case *p > 0:
		return "▲ " + p.SignedString()
	case *p < 0:
		return "▼ " + p.SignedString()
	default:
		return p.String()
	}
}
