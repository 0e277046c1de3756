package colorhash

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexStable(t *testing.T) {
	first := Hex("MAC2311Calculus 1")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Hex("MAC2311Calculus 1"))
	}
}

func TestHexFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, identity := range []string{"", "COP3502Programming Fundamentals 1", "MAC2311Calculus 1", "x"} {
		assert.Regexp(t, pattern, Hex(identity))
	}
}

func TestHSLPalette(t *testing.T) {
	identities := []string{
		"MAC2311Calculus 1",
		"COP3502Programming Fundamentals 1",
		"ENC1101Expository and Argumentative Writing",
		"PHY2048Physics with Calculus 1",
	}
	for _, identity := range identities {
		h, s, l := HSL(identity)
		assert.GreaterOrEqual(t, h, 0.0)
		assert.Less(t, h, 359.0)
		assert.Equal(t, 0.40, s)
		assert.Contains(t, []float64{0.40, 0.50, 0.60}, l)
	}
}

func TestDistinctIdentitiesUsuallyDiffer(t *testing.T) {
	a := Hex("MAC2311Calculus 1")
	b := Hex("MAC2312Calculus 2")
	require.NotEqual(t, a, b)
}
