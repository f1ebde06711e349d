package element

var (
	lineRef  = [][]float64{{-1}, {1}}
	line3Ref = [][]float64{{-1}, {1}, {0}}
	triRef   = [][]float64{{0, 0}, {1, 0}, {0, 1}}
	tri6Ref  = [][]float64{{0, 0}, {1, 0}, {0, 1}, {.5, 0}, {.5, .5}, {0, .5}}
	quadRef  = [][]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	quad8Ref = append(append([][]float64{}, quadRef...),
		[]float64{0, -1}, []float64{1, 0}, []float64{0, 1}, []float64{-1, 0})
	quad9Ref = append(append([][]float64{}, quad8Ref...), []float64{0, 0})
	tetRef   = [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	tet10Ref = append(append([][]float64{}, tetRef...),
		[]float64{.5, 0, 0}, []float64{.5, .5, 0}, []float64{0, .5, 0},
		[]float64{0, 0, .5}, []float64{.5, 0, .5}, []float64{0, .5, .5})
	hexRef = [][]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	hex20Ref = append(append([][]float64{}, hexRef...),
		[]float64{0, -1, -1}, []float64{1, 0, -1}, []float64{0, 1, -1}, []float64{-1, 0, -1},
		[]float64{-1, -1, 0}, []float64{1, -1, 0}, []float64{1, 1, 0}, []float64{-1, 1, 0},
		[]float64{0, -1, 1}, []float64{1, 0, 1}, []float64{0, 1, 1}, []float64{-1, 0, 1})
	hex27Ref = append(append([][]float64{}, hex20Ref...),
		[]float64{0, 0, -1}, []float64{0, -1, 0}, []float64{1, 0, 0},
		[]float64{0, 1, 0}, []float64{-1, 0, 0}, []float64{0, 0, 1}, []float64{0, 0, 0})
	pyramidRef = [][]float64{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}, {0, 0, 1}}
	wedgeRef   = [][]float64{{0, 0, -1}, {1, 0, -1}, {0, 1, -1}, {0, 0, 1}, {1, 0, 1}, {0, 1, 1}}
)

var (
	tri6Edges  = [][]int{{0, 1, 3}, {1, 2, 4}, {2, 0, 5}}
	tetEdges   = [][]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}
	tet10Edges = [][]int{{0, 1, 4}, {1, 2, 5}, {2, 0, 6}, {0, 3, 7}, {1, 3, 8}, {2, 3, 9}}
	hexEdges   = [][]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
	}
	hex20Edges = [][]int{
		{0, 1, 8}, {1, 2, 9}, {2, 3, 10}, {3, 0, 11},
		{0, 4, 12}, {1, 5, 13}, {2, 6, 14}, {3, 7, 15},
		{4, 5, 16}, {5, 6, 17}, {6, 7, 18}, {7, 4, 19},
	}
	quadEdges  = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	quad8Edges = [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}}
	triEdges   = [][]int{{0, 1}, {1, 2}, {2, 0}}
)

var (
	hexFaces = [][]int{
		{0, 1, 2, 3}, // Face 0
		{0, 1, 5, 4}, // Face 1
		{1, 2, 6, 5}, // Face 2
		{2, 3, 7, 6}, // Face 3
		{3, 0, 4, 7}, // Face 4
		{4, 5, 6, 7}, // Face 5
	}
	// Face 5 lists node 15, not 16. Do not change.
	hex20Faces = [][]int{
		{0, 1, 2, 3, 8, 9, 10, 11},
		{0, 1, 5, 4, 8, 13, 16, 12},
		{1, 2, 6, 5, 9, 14, 17, 13},
		{2, 3, 7, 6, 10, 15, 18, 14},
		{3, 0, 4, 7, 11, 12, 19, 15},
		{4, 5, 6, 7, 15, 17, 18, 19},
	}
	hex27Faces = [][]int{
		{0, 1, 2, 3, 8, 9, 10, 11, 20},
		{0, 1, 5, 4, 8, 13, 16, 12, 21},
		{1, 2, 6, 5, 9, 14, 17, 13, 22},
		{2, 3, 7, 6, 10, 15, 18, 14, 23},
		{3, 0, 4, 7, 11, 12, 19, 15, 24},
		{4, 5, 6, 7, 15, 17, 18, 19, 25},
	}
	tetFaces     = [][]int{{0, 1, 3}, {1, 2, 3}, {2, 0, 3}, {0, 2, 1}}
	tet10Faces   = [][]int{{0, 1, 3, 4, 8, 7}, {1, 2, 3, 5, 9, 8}, {2, 0, 3, 6, 7, 9}, {0, 2, 1, 6, 5, 4}}
	pyramidFaces = [][]int{{0, 1, 2, 3}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}
	pyramidEdges = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 4}, {1, 4}, {2, 4}, {3, 4}}
	wedgeFaces   = [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}, {0, 1, 2}, {3, 4, 5}}
	wedgeEdges   = [][]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}, {0, 3}, {1, 4}, {2, 5}}
)

func identity(n int) [][]int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return [][]int{idx}
}

func repeat(s Shape, n int) []Shape {
	shapes := make([]Shape, n)
	for i := range shapes {
		shapes[i] = s
	}
	return shapes
}

func inTet(xi []float64, includeBoundary bool) bool {
	sum := xi[0] + xi[1] + xi[2]
	if includeBoundary {
		return xi[0] >= 0 && xi[1] >= 0 && xi[2] >= 0 && sum <= 1
	}
	return xi[0] > 0 && xi[1] > 0 && xi[2] > 0 && sum < 1
}

func inHex(xi []float64, includeBoundary bool) bool {
	for d := 0; d < 3; d++ {
		a := xi[d]
		if a < 0 {
			a = -a
		}
		if includeBoundary && a > 1 || !includeBoundary && a >= 1 {
			return false
		}
	}
	return true
}

var shapeTable [NumShapes]shapeInfo

func init() {
	add := func(s Shape, si shapeInfo) {
		si.numNodes = len(si.refCoords)
		shapeTable[s] = si
	}
	withFcns := func(si shapeInfo, fcns func([]float64) []float64, derivs func([]float64) [][]float64) shapeInfo {
		si.fcns, si.derivs = fcns, derivs
		return si
	}

	f, d := vertexFcns()
	add(Vertex1, withFcns(shapeInfo{dim: 0, refCoords: [][]float64{{}}}, f, d))

	f, d = tensorFcns(lineRef, linear)
	add(Line2, withFcns(shapeInfo{dim: 1, refCoords: lineRef, edges: identity(2), edgeShape: Line2,
		gauss: lineGauss}, f, d))
	f, d = tensorFcns(line3Ref, quadratic)
	add(Line3, withFcns(shapeInfo{dim: 1, refCoords: line3Ref, edges: identity(3), edgeShape: Line3,
		gauss: lineGauss}, f, d))

	f, d = simplexFcns(2, nil)
	add(Tri3, withFcns(shapeInfo{dim: 2, refCoords: triRef, faces: identity(3), faceShapes: []Shape{Tri3},
		edges: triEdges, edgeShape: Line2, gauss: triGauss}, f, d))
	f, d = simplexFcns(2, tri6Edges)
	add(Tri6, withFcns(shapeInfo{dim: 2, refCoords: tri6Ref, faces: identity(6), faceShapes: []Shape{Tri6},
		edges: tri6Edges, edgeShape: Line3, gauss: triGauss}, f, d))

	f, d = tensorFcns(quadRef, linear)
	add(Quad4, withFcns(shapeInfo{dim: 2, refCoords: quadRef, faces: identity(4), faceShapes: []Shape{Quad4},
		edges: quadEdges, edgeShape: Line2, gauss: quadGauss}, f, d))
	f, d = serendipityFcns(quad8Ref)
	add(Quad8, withFcns(shapeInfo{dim: 2, refCoords: quad8Ref, faces: identity(8), faceShapes: []Shape{Quad8},
		edges: quad8Edges, edgeShape: Line3, gauss: quadGauss}, f, d))
	f, d = tensorFcns(quad9Ref, quadratic)
	add(Quad9, withFcns(shapeInfo{dim: 2, refCoords: quad9Ref, faces: identity(9), faceShapes: []Shape{Quad9},
		edges: quad8Edges, edgeShape: Line3, gauss: quadGauss}, f, d))

	f, d = simplexFcns(3, nil)
	add(Tet4, withFcns(shapeInfo{dim: 3, refCoords: tetRef, faces: tetFaces, faceShapes: repeat(Tri3, 4),
		edges: tetEdges, edgeShape: Line2, gauss: tetGauss, inRef: inTet}, f, d))
	f, d = simplexFcns(3, tet10Edges)
	add(Tet10, withFcns(shapeInfo{dim: 3, refCoords: tet10Ref, faces: tet10Faces, faceShapes: repeat(Tri6, 4),
		edges: tet10Edges, edgeShape: Line3, gauss: tetGauss, inRef: inTet}, f, d))

	f, d = tensorFcns(hexRef, linear)
	add(Hex8, withFcns(shapeInfo{dim: 3, refCoords: hexRef, faces: hexFaces, faceShapes: repeat(Quad4, 6),
		edges: hexEdges, edgeShape: Line2, gauss: hexGauss, inRef: inHex}, f, d))
	f, d = serendipityFcns(hex20Ref)
	add(Hex20, withFcns(shapeInfo{dim: 3, refCoords: hex20Ref, faces: hex20Faces, faceShapes: repeat(Quad8, 6),
		edges: hex20Edges, edgeShape: Line3, gauss: hexGauss, inRef: inHex}, f, d))
	f, d = tensorFcns(hex27Ref, quadratic)
	add(Hex27, withFcns(shapeInfo{dim: 3, refCoords: hex27Ref, faces: hex27Faces, faceShapes: repeat(Quad9, 6),
		edges: hex20Edges, edgeShape: Line3, gauss: hexGauss, inRef: inHex}, f, d))

	f, d = pyramidFcns(pyramidRef)
	add(Pyramid5, withFcns(shapeInfo{dim: 3, refCoords: pyramidRef, faces: pyramidFaces,
		faceShapes: []Shape{Quad4, Tri3, Tri3, Tri3, Tri3}, edges: pyramidEdges, edgeShape: Line2}, f, d))
	f, d = wedgeFcns(wedgeRef)
	add(Wedge6, withFcns(shapeInfo{dim: 3, refCoords: wedgeRef, faces: wedgeFaces,
		faceShapes: []Shape{Quad4, Quad4, Quad4, Tri3, Tri3}, edges: wedgeEdges, edgeShape: Line2}, f, d))
}
