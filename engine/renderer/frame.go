package renderer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

// Render clears to the theme background and, when the program linked, draws the quad with
// resolution set to the backing store and time set to the timestamp in seconds.
func (r *renderer) Render(timestampMs float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil || r.ctx.IsLost() {
		return
	}
	start := time.Now()

	bg := common.ParseHexColor(r.theme.BackgroundColor())
	r.ctx.ClearColor(bg.R, bg.G, bg.B, 1)
	r.ctx.Clear()

	if r.program.Linked() {
		r.ctx.UseProgram(r.program.Handle)
		r.ctx.BindBuffer(r.quad)
		r.ctx.Uniform2f(r.program.Resolution, float32(r.surface.Width), float32(r.surface.Height))
		r.ctx.Uniform1f(r.program.Time, float32(timestampMs/1000))
		r.ctx.DrawTriangleStrip(0, QuadVertexCount)
	}

	r.ctx.Present()
	r.metrics.FrameRendered(time.Since(start).Seconds())
}
