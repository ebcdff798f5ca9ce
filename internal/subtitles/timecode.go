package subtitles

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	zeroSRTTime = "00:00:00,000"
	zeroASSTime = "0:00:00.00"
)

var (
	assTimeRe       = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})\.(\d{2})`)
	canonicalTimeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})`)
)

// ASSToSRTTime converts an ASS H:MM:SS.cc timestamp to HH:MM:SS,mmm. The
// centisecond field is scaled exactly (ms = cc*10). Unparseable input yields
// the zero timestamp.
func ASSToSRTTime(value string) string {
	match := assTimeRe.FindStringSubmatch(value)
	if match == nil {
		return zeroSRTTime
	}
	hours, _ := strconv.Atoi(match[1])
	cs, _ := strconv.Atoi(match[4])
	return fmt.Sprintf("%02d:%s:%s,%03d", hours, match[2], match[3], cs*10)
}

// SRTToASSTime converts HH:MM:SS,mmm to ASS H:MM:SS.cc. Milliseconds are
// truncated to centiseconds (cs = ms/10), so values that are not a multiple of
// ten lose up to 9ms.
func SRTToASSTime(value string) string {
	match := canonicalTimeRe.FindStringSubmatch(value)
	if match == nil {
		return zeroASSTime
	}
	hours, _ := strconv.Atoi(match[1])
	ms, _ := strconv.Atoi(match[4])
	return fmt.Sprintf("%d:%s:%s.%02d", hours, match[2], match[3], ms/10)
}

// Milliseconds returns the offset encoded by a canonical HH:MM:SS,mmm
// timestamp.
func Milliseconds(value string) (int64, error) {
	match := canonicalTimeRe.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var parts [4]int64
	for i := range parts {
		n, err := strconv.ParseInt(match[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		parts[i] = n
	}
	return ((parts[0]*60+parts[1])*60+parts[2])*1000 + parts[3], nil
}

// FormatMilliseconds renders an offset as canonical HH:MM:SS,mmm.
func FormatMilliseconds(total int64) string {
	if total < 0 {
		total = 0
	}
	ms := total % 1000
	total /= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total%3600)/60, total%60, ms)
}
