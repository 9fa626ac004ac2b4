package dedupe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineIdenticalText(t *testing.T) {
	t.Parallel()

	a := newTextVector("Gouvernement annonce réforme")
	b := newTextVector("gouvernement annonce réforme")
	require.InDelta(t, 1.0, cosine(a, b), 1e-9)
}

func TestCosineDisjointText(t *testing.T) {
	t.Parallel()

	a := newTextVector("grève transports paris")
	b := newTextVector("festival musique lyon")
	require.Equal(t, 0.0, cosine(a, b))
}

func TestCosineSymmetric(t *testing.T) {
	t.Parallel()

	a := newTextVector("réforme des retraites annoncée")
	b := newTextVector("la réforme des retraites arrive")
	require.InDelta(t, cosine(a, b), cosine(b, a), 1e-9)
	require.Greater(t, cosine(a, b), 0.0)
	require.LessOrEqual(t, cosine(a, b), 1.0)
}

func TestCosineEmptyTextDegradesToZero(t *testing.T) {
	t.Parallel()

	// Malformed text never aborts a batch; it just compares as dissimilar.
	require.Nil(t, newTextVector(""))
	require.Nil(t, newTextVector("!!! ... ??"))
	require.Equal(t, 0.0, cosine(nil, newTextVector("gouvernement annonce réforme")))
	require.Equal(t, 0.0, cosine(nil, nil))
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	t.Parallel()

	tokens := tokenize("La grève à la SNCF : le trafic est perturbé")
	require.Equal(t, []string{"grève", "sncf", "trafic", "est", "perturbé"}, tokens)
}
