package protector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtect(t *testing.T) {
	t.Run("masks an image embed", func(t *testing.T) {
		masked, m := Protect("CAPM assumes ![[chart.png]]")

		assert.Equal(t, "CAPM assumes __IMG_0__", masked)
		require.Equal(t, 1, m.Len())
		original, ok := m.Original("__IMG_0__")
		require.True(t, ok)
		assert.Equal(t, "![[chart.png]]", original)
	})

	t.Run("images are numbered before links", func(t *testing.T) {
		masked, m := Protect("see [[Beta]] and ![[plot.png]] then [[Alpha|a]]")

		assert.Equal(t, "see __LINK_1__ and __IMG_0__ then __LINK_2__", masked)
		assert.Equal(t, []string{"__IMG_0__", "__LINK_1__", "__LINK_2__"}, m.Tokens())
	})

	t.Run("embed is not also matched as a link", func(t *testing.T) {
		masked, m := Protect("![[a.png]]")

		assert.Equal(t, "__IMG_0__", masked)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("patterns do not cross newlines", func(t *testing.T) {
		text := "[[open\nclose]] and ![[x\n]]"
		masked, m := Protect(text)

		assert.Equal(t, text, masked)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("text without structure is unchanged", func(t *testing.T) {
		masked, m := Protect("plain words only")

		assert.Equal(t, "plain words only", masked)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("skips tokens already present in the input", func(t *testing.T) {
		text := "literal __IMG_0__ next to ![[real.png]]"
		masked, m := Protect(text)

		require.Equal(t, 1, m.Len())
		token := m.Tokens()[0]
		assert.NotEqual(t, "__IMG_0__", token)
		assert.Equal(t, 1, strings.Count(masked, token))
		assert.Equal(t, text, Restore(masked, m))
	})

	t.Run("retries when a token merges with adjacent text", func(t *testing.T) {
		text := "a__LINK_0[[x]]__b"
		masked, m := Protect(text)

		require.Equal(t, 1, m.Len())
		assert.Equal(t, text, Restore(masked, m))
	})

	t.Run("each call starts a fresh counter", func(t *testing.T) {
		_, first := Protect("![[a.png]]")
		_, second := Protect("![[b.png]]")

		assert.Equal(t, []string{"__IMG_0__"}, first.Tokens())
		assert.Equal(t, []string{"__IMG_0__"}, second.Tokens())
	})
}

func TestRestore(t *testing.T) {
	inputs := []string{
		"CAPM assumes ![[chart.png]]",
		"[[Black-Scholes]] relies on ![[vol.png]] and [[Ito]]",
		"nested [[a ![[b.png]] c]] link",
		"![[one.png]]![[two.png]][[three]]",
		"no structure at all",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			masked, m := Protect(input)
			assert.Equal(t, input, Restore(masked, m))

			tokens := m.Tokens()
			seen := make(map[string]bool)
			for _, token := range tokens {
				assert.False(t, seen[token], "token %s minted twice", token)
				seen[token] = true
				assert.NotContains(t, input, token)
			}
		})
	}

	t.Run("restores after the text around tokens changed", func(t *testing.T) {
		masked, m := Protect("CAPM assumes ![[chart.png]]")
		rewritten := strings.Replace(masked, "CAPM assumes", "The CAPM rigorously assumes", 1)

		assert.Equal(t, "The CAPM rigorously assumes ![[chart.png]]", Restore(rewritten, m))
	})

	t.Run("order of tokens in the rewrite does not matter", func(t *testing.T) {
		_, m := Protect("[[A]] then [[B]]")

		assert.Equal(t, "[[B]] before [[A]]", Restore("__LINK_1__ before __LINK_0__", m))
	})

	t.Run("dropped tokens are reported and left alone", func(t *testing.T) {
		_, m := Protect("![[a.png]] and [[b]]")
		rewritten := "only __LINK_1__ survived, __IMG_O__ was mangled"

		assert.Equal(t, []string{"__IMG_0__"}, Missing(rewritten, m))
		assert.Equal(t, "only [[b]] survived, __IMG_O__ was mangled", Restore(rewritten, m))
	})
}
