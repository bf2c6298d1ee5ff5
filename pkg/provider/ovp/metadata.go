package ovp

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseMetadataXML flattens a custom metadata document of the form
// <metadata><Key>value</Key>...</metadata> into key/value pairs. Later
// duplicates win.
func ParseMetadataXML(doc string) (map[string]string, error) {
	fields := make(map[string]string)
	dec := xml.NewDecoder(strings.NewReader(doc))

	var (
		depth int
		key   string
		text  strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				key = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				fields[key] = strings.TrimSpace(text.String())
			}
			depth--
		}
	}
	return fields, nil
}
