package keymap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleKeymap = `/ {
	keymap {
		compatible = "zmk,keymap";

		BASE {
			bindings = <
&kp Q     &kp W     &kp E
&kp A     &mt LSHIFT S &kp SEMICOLON
			>;
		};

		NAV {
			bindings = <
&kp Q     &kp LEFT  &kp RIGHT
			>;
		};
	};
};
`

func TestApplyRewritesBaseLayerOnly(t *testing.T) {
	m, ok := Lookup("qwerty", "graphite")
	require.True(t, ok)

	got := m.Apply(sampleKeymap)

	require.Contains(t, got, "&kp B     &kp L     &kp D")
	require.Contains(t, got, "&kp N     &mt LSHIFT R &kp I")

	// The NAV layer keeps its QWERTY codes.
	require.Contains(t, got, "&kp Q     &kp LEFT  &kp RIGHT")
}

func TestApplyLeavesUnmappedTokens(t *testing.T) {
	m, ok := Lookup("qwerty", "colemak_dh")
	require.True(t, ok)

	got := m.Apply(sampleKeymap)

	// LSHIFT has no layout mapping and survives as-is inside the block.
	require.Contains(t, got, "LSHIFT")
	// Lowercase behavior references are never tokens.
	require.Contains(t, got, "&kp")
	require.Contains(t, got, "&mt")
}

func TestApplyWithoutBaseLayer(t *testing.T) {
	m, ok := Lookup("qwerty", "canary")
	require.True(t, ok)

	contents := "/ { keymap { NAV { bindings = <&kp Q>; }; }; };\n"
	require.Equal(t, contents, m.Apply(contents))
}

func TestApplyRoundTrip(t *testing.T) {
	for _, dst := range []string{"colemak_dh", "graphite", "canary", "focal"} {
		t.Run(dst, func(t *testing.T) {
			forward, ok := Lookup("qwerty", dst)
			require.True(t, ok)
			reverse, ok := Lookup(dst, "qwerty")
			require.True(t, ok)

			require.Equal(t, sampleKeymap, reverse.Apply(forward.Apply(sampleKeymap)))
		})
	}
}

func TestLookup(t *testing.T) {
	m, ok := Lookup("qwerty", "focal")
	require.True(t, ok)
	require.Equal(t, "qwerty->focal", m.Name())

	// Case and whitespace are forgiven, and the compact alias resolves.
	m, ok = Lookup(" QWERTY ", "ColemakDH")
	require.True(t, ok)
	require.Equal(t, "qwerty->colemak_dh", m.Name())

	_, ok = Lookup("qwerty", "dvorak")
	require.False(t, ok)
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		spec    string
		src     string
		dst     string
		wantErr bool
	}{
		{spec: "qwerty->graphite", src: "qwerty", dst: "graphite"},
		{spec: "qwerty:graphite", src: "qwerty", dst: "graphite"},
		{spec: "ColemakDH->QWERTY", src: "colemak_dh", dst: "qwerty"},
		{spec: "graphite", wantErr: true},
		{spec: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			src, dst, err := ParseSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.src, src)
			require.Equal(t, tt.dst, dst)
		})
	}
}

func TestFromQwerty(t *testing.T) {
	maps := FromQwerty()
	var dsts []string
	for _, m := range maps {
		require.Equal(t, "qwerty", m.Src)
		dsts = append(dsts, m.Dst)
	}
	require.Equal(t, []string{"canary", "colemak_dh", "focal", "graphite"}, dsts)
}

func TestAllListsBothDirections(t *testing.T) {
	all := All()
	require.Len(t, all, 8)

	seen := map[string]bool{}
	for _, m := range all {
		seen[m.Name()] = true
	}
	require.True(t, seen["qwerty->graphite"])
	require.True(t, seen["graphite->qwerty"])
}
