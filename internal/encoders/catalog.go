// Package encoders provides a catalog of the video encoders the worker
// knows by id, with the preference order used to pick one automatically.
package encoders

import (
	"slices"

	"github.com/judehek/ascent-obs/internal/message"
)

// Vendor is the hardware family an encoder runs on.
type Vendor string

const (
	// VendorNvidia is NVENC.
	VendorNvidia Vendor = "nvidia"
	// VendorAMD is AMF.
	VendorAMD Vendor = "amd"
	// VendorIntel is QuickSync.
	VendorIntel Vendor = "intel"
	// VendorSoftware runs on the CPU.
	VendorSoftware Vendor = "software"
)

// Codec is the compression format an encoder produces.
type Codec string

const (
	// CodecH264 is H.264/AVC.
	CodecH264 Codec = "h264"
	// CodecHEVC is H.265/HEVC.
	CodecHEVC Codec = "hevc"
	// CodecAV1 is AV1.
	CodecAV1 Codec = "av1"
)

// Encoder holds metadata for a single worker encoder.
type Encoder struct {
	// ID is the worker encoder id (e.g. "jim_nvenc").
	ID string
	// Name is the human-readable display name.
	Name string
	// Aliases are shorthand names accepted in configuration (e.g. "nvenc").
	Aliases []string
	Vendor  Vendor
	Codec   Codec
	// Legacy marks ids superseded by a newer implementation.
	Legacy bool
}

// Hardware reports whether the encoder runs on a GPU.
func (e Encoder) Hardware() bool {
	return e.Vendor != VendorSoftware
}

// All returns a copy of every known encoder in preference order.
func All() []Encoder {
	out := make([]Encoder, len(registry))
	copy(out, registry)

	return out
}

// ByID looks up an encoder by id, then by alias. Returns nil if unknown.
func ByID(id string) *Encoder {
	for i := range registry {
		if registry[i].ID == id {
			e := registry[i]

			return &e
		}
	}

	for i := range registry {
		if slices.Contains(registry[i].Aliases, id) {
			e := registry[i]

			return &e
		}
	}

	return nil
}

// Resolve maps an alias to its encoder id. Unknown names are returned
// unchanged so the worker can judge them.
func Resolve(name string) string {
	if e := ByID(name); e != nil {
		return e.ID
	}

	return name
}

// ByVendor returns all encoders for vendor in preference order.
func ByVendor(vendor Vendor) []Encoder {
	var out []Encoder

	for _, e := range registry {
		if e.Vendor == vendor {
			out = append(out, e)
		}
	}

	return out
}

// Preferred picks the most preferred H.264 encoder the worker reported as
// valid. It falls back to x264, which every build ships.
func Preferred(available []message.VideoEncoderInfo) string {
	valid := make([]string, 0, len(available))

	for _, info := range available {
		if info.Valid {
			valid = append(valid, info.Type)
		}
	}

	for _, e := range registry {
		if e.Codec == CodecH264 && !e.Legacy && slices.Contains(valid, e.ID) {
			return e.ID
		}
	}

	return IDx264
}

// DisplayName returns the catalog name for id, or id itself when unknown.
func DisplayName(id string) string {
	if e := ByID(id); e != nil {
		return e.Name
	}

	return id
}
