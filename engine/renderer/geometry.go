package renderer

// QuadVertexCount is the number of vertices of the full-screen quad.
const QuadVertexCount = 4

// QuadComponents is the number of floats per quad vertex.
const QuadComponents = 2

// QuadVertices covers clip space as a triangle strip: bottom-left, bottom-right, top-left, top-right.
var QuadVertices = [QuadVertexCount * QuadComponents]float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}
