package display

import (
	"bytes"
	"testing"

	"github.com/penwyp/go-timeline-clock/internal/presentation/layout"
	"github.com/penwyp/go-timeline-clock/internal/testing/e2e"
	"github.com/stretchr/testify/assert"
)

func TestPlainStylesLeaveTextAlone(t *testing.T) {
	styles := PlainStyles(&bytes.Buffer{})
	for role := layout.RoleBlank; role <= layout.RoleStatus; role++ {
		assert.Equal(t, "01:00 PM", styles.Render(role, "01:00 PM"))
	}
}

func TestRenderRowKeepsText(t *testing.T) {
	g := layout.NewGrid(1, 12)
	g.Put(0, 1, "01:00 PM", layout.RoleHourLabel)
	g.Fill(0, 10, 12, '━', layout.RoleLine)

	for _, styles := range []Styles{NewStyles(&bytes.Buffer{}), PlainStyles(&bytes.Buffer{})} {
		assert.Equal(t, " 01:00 PM ━━", e2e.StripANSI(styles.RenderRow(g, 0)))
	}
}
