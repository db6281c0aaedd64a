package encoders

// Encoder ids understood by the worker.
const (
	IDx264          = "obs_x264"
	IDQuickSync     = "obs_qsv11_v2"
	IDQuickSyncHEVC = "obs_qsv11_hevc"
	IDQuickSyncAV1  = "obs_qsv11_av1"
	IDAMF           = "h264_texture_amf"
	IDAMFHEVC       = "h265_texture_amf"
	IDAMFAV1        = "av1_texture_amf"
	IDNVENCLegacy   = "ffmpeg_nvenc"
	IDNVENC         = "jim_nvenc"
	IDNVENCHEVC     = "jim_hevc_nvenc"
	IDNVENCAV1      = "jim_av1_nvenc"
)

// registry lists encoders in preference order: hardware before software,
// NVENC first. Only the preferred encoder per vendor gets the short alias.
var registry = []Encoder{
	{
		ID:      IDNVENC,
		Name:    "NVIDIA NVENC H.264",
		Aliases: []string{"nvenc"},
		Vendor:  VendorNvidia,
		Codec:   CodecH264,
	},
	{
		ID:      IDNVENCHEVC,
		Name:    "NVIDIA NVENC HEVC",
		Aliases: []string{"nvenc-hevc"},
		Vendor:  VendorNvidia,
		Codec:   CodecHEVC,
	},
	{
		ID:      IDNVENCAV1,
		Name:    "NVIDIA NVENC AV1",
		Aliases: []string{"nvenc-av1"},
		Vendor:  VendorNvidia,
		Codec:   CodecAV1,
	},
	{
		ID:     IDNVENCLegacy,
		Name:   "NVIDIA NVENC H.264 (FFmpeg)",
		Vendor: VendorNvidia,
		Codec:  CodecH264,
		Legacy: true,
	},
	{
		ID:      IDAMF,
		Name:    "AMD AMF H.264",
		Aliases: []string{"amf"},
		Vendor:  VendorAMD,
		Codec:   CodecH264,
	},
	{
		ID:      IDAMFHEVC,
		Name:    "AMD AMF HEVC",
		Aliases: []string{"amf-hevc"},
		Vendor:  VendorAMD,
		Codec:   CodecHEVC,
	},
	{
		ID:      IDAMFAV1,
		Name:    "AMD AMF AV1",
		Aliases: []string{"amf-av1"},
		Vendor:  VendorAMD,
		Codec:   CodecAV1,
	},
	{
		ID:      IDQuickSync,
		Name:    "Intel QuickSync H.264",
		Aliases: []string{"qsv"},
		Vendor:  VendorIntel,
		Codec:   CodecH264,
	},
	{
		ID:      IDQuickSyncHEVC,
		Name:    "Intel QuickSync HEVC",
		Aliases: []string{"qsv-hevc"},
		Vendor:  VendorIntel,
		Codec:   CodecHEVC,
	},
	{
		ID:      IDQuickSyncAV1,
		Name:    "Intel QuickSync AV1",
		Aliases: []string{"qsv-av1"},
		Vendor:  VendorIntel,
		Codec:   CodecAV1,
	},
	{
		ID:      IDx264,
		Name:    "x264 (software)",
		Aliases: []string{"x264"},
		Vendor:  VendorSoftware,
		Codec:   CodecH264,
	},
}
