package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/averycrespi/vooshi/pkg/types"
)

const (
	anchorScheme = "vooshi"
)

// CursorAnchor encodes a cursor position in a file, e.g. vooshi://main.go#12:5.
// Coordinates are 1-indexed display coordinates
type CursorAnchor string

// NewCursorAnchor creates a new CursorAnchor from a file, display line, and display character
func NewCursorAnchor(file string, displayLine int, displayChar int) CursorAnchor {
	return CursorAnchor(fmt.Sprintf("%s://%s#%d:%d", anchorScheme, file, displayLine, displayChar))
}

// AnchorForPosition creates an anchor from a 0-indexed position
func AnchorForPosition(file string, pos types.Position) CursorAnchor {
	return NewCursorAnchor(file, pos.Line+1, pos.Character+1)
}

// IsValid checks if the anchor has a valid format
func (a CursorAnchor) IsValid() bool {
	_, _, _, err := a.Parse()
	return err == nil
}

// String returns the string representation of the anchor
func (a CursorAnchor) String() string {
	return string(a)
}

// ToFilePosition converts the anchor to a file path and a 0-indexed position
func (a CursorAnchor) ToFilePosition() (file string, position types.Position, err error) {
	file, displayLine, displayChar, err := a.Parse()
	if err != nil {
		return "", types.Position{}, err
	}
	position = types.Position{
		Line:      displayLine - 1,
		Character: displayChar - 1,
	}
	return file, position, nil
}

// Parse parses a CursorAnchor into a file, display line, and display character
func (a CursorAnchor) Parse() (file string, displayLine int, displayChar int, err error) {
	anchorStr := string(a)

	if !strings.HasPrefix(anchorStr, anchorScheme+"://") {
		return "", 0, 0, fmt.Errorf("invalid anchor scheme, expected '%s://', got: %s", anchorScheme, anchorStr)
	}
	rest := anchorStr[len(anchorScheme)+3:]

	// The file may itself contain '#', so split on the last one
	idx := strings.LastIndex(rest, "#")
	if idx < 0 {
		return "", 0, 0, fmt.Errorf("invalid anchor format, expected '%s://FILE#LINE:CHAR', got: %s", anchorScheme, anchorStr)
	}

	file = rest[:idx]
	if file == "" {
		return "", 0, 0, fmt.Errorf("empty file in anchor: %s", anchorStr)
	}

	coords := rest[idx+1:]
	coordParts := strings.SplitN(coords, ":", 2)
	if len(coordParts) != 2 {
		return "", 0, 0, fmt.Errorf("invalid coordinate format, expected 'LINE:CHAR', got: %s", coords)
	}

	displayLine, err = strconv.Atoi(coordParts[0])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid line number '%s': %v", coordParts[0], err)
	}

	displayChar, err = strconv.Atoi(coordParts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid character number '%s': %v", coordParts[1], err)
	}

	if displayLine < 1 {
		return "", 0, 0, fmt.Errorf("display line must be positive (starts at 1): %d", displayLine)
	}

	if displayChar < 1 {
		return "", 0, 0, fmt.Errorf("display character must be positive (starts at 1): %d", displayChar)
	}

	return file, displayLine, displayChar, nil
}
