package emailcheck

import (
	"errors"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/traceprint/traceprint/internal/model"
)

// analyzeAvatar inspects an avatar image for embedded EXIF metadata.
// Gravatar serves user-uploaded images, and uploads from phones can
// carry GPS coordinates and device identifiers the owner never meant to
// publish. The verdict distinguishes three outcomes: no metadata,
// metadata present, and location metadata present.
func (c *Checker) analyzeAvatar(data []byte) model.EmailCheck {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, exif.ErrNoExif) {
			return model.EmailCheck{Check: CheckAvatarMeta, Status: "clean"}
		}
		return model.EmailCheck{Check: CheckAvatarMeta, Status: "error", Detail: err.Error()}
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return model.EmailCheck{Check: CheckAvatarMeta, Status: "error", Detail: err.Error()}
	}
	if len(tags) == 0 {
		return model.EmailCheck{Check: CheckAvatarMeta, Status: "clean"}
	}

	var device string
	hasGPS := false
	for _, tag := range tags {
		if strings.Contains(tag.IfdPath, "GPS") || strings.HasPrefix(tag.TagName, "GPS") {
			hasGPS = true
		}
		if tag.TagName == "Model" && device == "" {
			device = strings.TrimSpace(tag.Formatted)
		}
	}

	switch {
	case hasGPS:
		return model.EmailCheck{
			Check:  CheckAvatarMeta,
			Status: "exposed",
			Detail: "avatar EXIF contains GPS location data",
		}
	case device != "":
		return model.EmailCheck{
			Check:  CheckAvatarMeta,
			Status: "metadata",
			Detail: "avatar EXIF identifies camera model " + device,
		}
	default:
		return model.EmailCheck{
			Check:  CheckAvatarMeta,
			Status: "metadata",
			Detail: "avatar carries EXIF metadata",
		}
	}
}
