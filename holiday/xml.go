package holiday

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/cyp0633/libcapacity/calendar"
)

// LoadXML reads a holiday feed of the form
//
//	<holidays>
//	  <holiday date="2024-01-01">Confraternização Universal</holiday>
//	</holidays>
//
// A malformed date attribute fails the whole load.
func LoadXML(r io.Reader) (Static, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse holiday feed: %w", err)
	}

	root := doc.SelectElement("holidays")
	if root == nil {
		return nil, fmt.Errorf("holiday feed: missing <holidays> root element")
	}

	out := make(Static)
	for _, el := range root.SelectElements("holiday") {
		d, err := calendar.ParseDate(el.SelectAttrValue("date", ""))
		if err != nil {
			return nil, fmt.Errorf("holiday feed: %w", err)
		}
		out[d] = strings.TrimSpace(el.Text())
	}
	return out, nil
}

// WriteXML writes s in the format read by LoadXML, sorted by date.
func WriteXML(w io.Writer, s Static) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("holidays")

	for _, d := range s.Set().Sorted() {
		el := root.CreateElement("holiday")
		el.CreateAttr("date", d.String())
		el.SetText(s[d])
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write holiday feed: %w", err)
	}
	return nil
}
