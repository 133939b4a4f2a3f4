package vocab_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hypergraph/vocab"
)

func TestSpecialsAreFixed(t *testing.T) {
	v1, v2 := vocab.New(), vocab.New()
	for _, name := range []string{"<eps>", "<rho>", "<sigma>", "<phi>"} {
		a, ok := v1.Lookup(name, vocab.Special)
		require.True(t, ok, name)
		b, ok := v2.Lookup(name, vocab.Special)
		require.True(t, ok, name)
		assert.Equal(t, a, b)
	}
	assert.Equal(t, "<eps>", v1.Str(vocab.Epsilon))
	assert.True(t, vocab.Epsilon.IsEpsilon())
	assert.True(t, vocab.Rho.IsSpecial())
	assert.True(t, vocab.Sigma.IsTerminal())
	assert.False(t, vocab.Phi.IsLexical())
}

func TestAddIsIdempotentPerKind(t *testing.T) {
	v := vocab.New()
	a := v.Add("NP", vocab.Lexical)
	b := v.Add("NP", vocab.Nonterminal)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, v.Add("NP", vocab.Lexical))
	assert.True(t, a.IsLexical())
	assert.True(t, b.IsNonterminal())
	assert.Equal(t, 1, v.Size(vocab.Lexical))
	assert.Equal(t, 1, v.Size(vocab.Nonterminal))
}

func TestNormalization(t *testing.T) {
	v := vocab.New()
	composed := v.Add("caf\u00e9", vocab.Lexical)
	decomposed := v.Add("cafe\u0301", vocab.Lexical)
	assert.Equal(t, composed, decomposed)
}

func TestParseAndFormat(t *testing.T) {
	v := vocab.New()
	cases := []struct {
		tok  string
		kind vocab.Kind
	}{
		{`"the cat"`, vocab.Lexical},
		{`<eps>`, vocab.Special},
		{`NP`, vocab.Nonterminal},
	}
	for _, tc := range cases {
		s, err := v.Parse(tc.tok)
		require.NoError(t, err, tc.tok)
		k, ok := v.Classify(s)
		require.True(t, ok)
		assert.Equal(t, tc.kind, k)
		assert.Equal(t, tc.tok, v.Format(s))
	}

	_, err := v.Parse("<nope>")
	assert.ErrorIs(t, err, vocab.ErrUnknownSpecial)
	_, err = v.Parse(`"unterminated`)
	assert.ErrorIs(t, err, vocab.ErrBadToken)
	_, err = v.Parse("")
	assert.ErrorIs(t, err, vocab.ErrBadToken)
}

func TestClassifyForeign(t *testing.T) {
	v := vocab.New()
	other := vocab.New()
	s := other.Add("x", vocab.Lexical)
	_, ok := v.Classify(s)
	assert.False(t, ok)
	_, ok = v.Classify(vocab.NoSymbol)
	assert.False(t, ok)
	assert.Equal(t, "-", v.Format(vocab.NoSymbol))
}

func TestConcurrentAdd(t *testing.T) {
	v := vocab.New()
	var wg sync.WaitGroup
	ids := make([]vocab.Sym, 32)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = v.Add("w", vocab.Lexical)
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, v.Size(vocab.Lexical))
}
