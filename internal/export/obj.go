package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/piwi3910/parasys/internal/profile"
)

// OBJ writes the meshes as one Wavefront OBJ document, one object per panel.
// Coordinates stay in meters.
func OBJ(meshes []profile.Mesh) []byte {
	var buf bytes.Buffer
	buf.WriteString("# parasys panel meshes (m)\n")
	offset := 1
	for _, m := range meshes {
		fmt.Fprintf(&buf, "o %s\n", m.PanelID)
		for i := 0; i < m.VertexCount(); i++ {
			fmt.Fprintf(&buf, "v %s %s %s\n", objNum(m.Vertices[3*i]), objNum(m.Vertices[3*i+1]), objNum(m.Vertices[3*i+2]))
		}
		for i := 0; i < len(m.Normals)/3; i++ {
			fmt.Fprintf(&buf, "vn %s %s %s\n", objNum(m.Normals[3*i]), objNum(m.Normals[3*i+1]), objNum(m.Normals[3*i+2]))
		}
		for t := 0; t+2 < len(m.Indices); t += 3 {
			a, b, c := int(m.Indices[t])+offset, int(m.Indices[t+1])+offset, int(m.Indices[t+2])+offset
			fmt.Fprintf(&buf, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		offset += m.VertexCount()
	}
	return buf.Bytes()
}

func objNum(v float64) string {
	return strconv.FormatFloat(roundTo(v, 6), 'f', -1, 64)
}
