package cache

import (
	"strconv"
	"strings"
)

// parseInfoStr extracts a field value from a Redis INFO section body.
// INFO lines look like "connected_clients:3\r\n".
func parseInfoStr(info, field string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")
		if v, ok := strings.CutPrefix(line, field+":"); ok {
			return v
		}
	}
	return ""
}

func parseInfoInt(info, field string) int64 {
	v := parseInfoStr(info, field)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
