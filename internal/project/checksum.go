package project

import (
	"fmt"
	"hash/fnv"

	"floorplan/internal/domain"
)

// ChecksumShapes fingerprints a shape collection independent of order:
// per-shape FNV hashes are combined with addition, so two files whose
// shapes were serialized in different orders still verify.
func ChecksumShapes(shapes []domain.Shape) string {
	var sum uint64
	for _, s := range shapes {
		sum += hashShape(s)
	}
	return fmt.Sprintf("%016x", sum)
}

func hashShape(s domain.Shape) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%.6f|%.6f|", s.ID, s.Kind, s.Position.X, s.Position.Y)
	// Timestamps and style are excluded: the checksum covers geometry.
	if props, err := s.MarshalProps(); err == nil {
		h.Write([]byte(props))
	}
	return h.Sum64()
}

// Verify reports whether the file's recorded checksum matches its
// shapes. Files written before checksums existed verify trivially.
func Verify(f *File) bool {
	if f.Checksum == "" {
		return true
	}
	return f.Checksum == ChecksumShapes(f.Shapes)
}
