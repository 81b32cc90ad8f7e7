package color

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

var sectionColors = []string{
	"#58A2EE", // blue
	"#3FE34B", // bright green
	"#7c60d7", // purple
	"#FD2C4C", // red
	"#FE7A00", // orange
	"#FAF81C", // yellow
	"#56EBD3", // teal
	"#42952E", // green
	"#FFACE6", // light pink
	"#FE16F4", // bright pink
	"#D6A112", // gold
	"#FFDAB9", // beige
	"#FF7E6A", // tomato
}

// SectionColor returns a stable hex color for a section name
func SectionColor(name string) string {
	hash := md5.Sum([]byte(name))
	hashStr := hex.EncodeToString(hash[:])
	var hashValue int64
	_, err := fmt.Sscanf(hashStr[:8], "%x", &hashValue)
	if err != nil {
		return sectionColors[0]
	}
	return sectionColors[hashValue%int64(len(sectionColors))]
}
