package encoders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judehek/ascent-obs/internal/message"
)

func TestAll(t *testing.T) {
	all := All()
	require.NotEmpty(t, all, "catalog must not be empty")

	for _, e := range all {
		assert.NotEmpty(t, e.ID, "encoder ID must not be empty")
		assert.NotEmpty(t, e.Name, "encoder Name must not be empty")
		assert.NotEmpty(t, e.Vendor, "encoder Vendor must not be empty")
		assert.NotEmpty(t, e.Codec, "encoder Codec must not be empty")
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	b := All()
	a[0].ID = "mutated"

	assert.NotEqual(t, "mutated", b[0].ID, "All() must return independent copies")
}

func TestNoDuplicateIDsOrAliases(t *testing.T) {
	seen := make(map[string]bool, 2*len(registry))

	for _, e := range registry {
		assert.False(t, seen[e.ID], "duplicate name: %s", e.ID)
		seen[e.ID] = true

		for _, alias := range e.Aliases {
			assert.False(t, seen[alias], "duplicate name: %s", alias)
			seen[alias] = true
		}
	}
}

func TestByID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantNil bool
	}{
		{name: "exact match", input: "jim_nvenc", wantID: IDNVENC},
		{name: "alias nvenc", input: "nvenc", wantID: IDNVENC},
		{name: "alias qsv", input: "qsv", wantID: IDQuickSync},
		{name: "alias x264", input: "x264", wantID: IDx264},
		{name: "legacy id", input: "ffmpeg_nvenc", wantID: IDNVENCLegacy},
		{name: "unknown", input: "h264_vaapi", wantNil: true},
		{name: "empty", input: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByID(tt.input)
			if tt.wantNil {
				require.Nil(t, got)

				return
			}

			require.NotNil(t, got)
			require.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolve(t *testing.T) {
	require.Equal(t, IDAMF, Resolve("amf"))
	require.Equal(t, IDNVENC, Resolve(IDNVENC))
	require.Equal(t, "custom_encoder", Resolve("custom_encoder"))
}

func TestByVendor(t *testing.T) {
	nvidia := ByVendor(VendorNvidia)
	require.Len(t, nvidia, 4)

	for _, e := range nvidia {
		require.True(t, e.Hardware())
	}

	software := ByVendor(VendorSoftware)
	require.Len(t, software, 1)
	require.False(t, software[0].Hardware())
}

func TestPreferred(t *testing.T) {
	tests := []struct {
		name      string
		available []message.VideoEncoderInfo
		want      string
	}{
		{
			name: "nvenc wins",
			available: []message.VideoEncoderInfo{
				{Type: IDx264, Valid: true},
				{Type: IDQuickSync, Valid: true},
				{Type: IDNVENC, Valid: true},
			},
			want: IDNVENC,
		},
		{
			name: "invalid encoders skipped",
			available: []message.VideoEncoderInfo{
				{Type: IDNVENC, Valid: false},
				{Type: IDAMF, Valid: true},
			},
			want: IDAMF,
		},
		{
			name: "legacy and hevc not chosen",
			available: []message.VideoEncoderInfo{
				{Type: IDNVENCLegacy, Valid: true},
				{Type: IDNVENCHEVC, Valid: true},
			},
			want: IDx264,
		},
		{
			name: "empty falls back to x264",
			want: IDx264,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Preferred(tt.available))
		})
	}
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Intel QuickSync H.264", DisplayName(IDQuickSync))
	require.Equal(t, "mystery", DisplayName("mystery"))
}
