package model

import "encoding/xml"

func xmlUnmarshal(src string, v any) error {
	return xml.Unmarshal([]byte(src), v)
}
