package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/go3d/raster3d/pkg/pipeline"
	"github.com/go3d/raster3d/pkg/vmath"
)

// loadGLTFMesh loads a glTF/GLB document's triangle geometry into a vertex
// and index buffer ready for pipeline.Pipeline.SetVertexBuffer/
// SetIndexBuffer, plus the first embedded image, if any.
func loadGLTFMesh(path string) ([]pipeline.Vertex, []uint32, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	var vertices []pipeline.Vertex
	var indices []uint32

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("read positions: %w", err)
			}

			normals := make([]vmath.Vec3, len(positions))
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = readVec3Accessor(doc, normIdx)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("read normals: %w", err)
				}
			}

			uvs := make([]vmath.Vec2, len(positions))
			if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = readVec2Accessor(doc, uvIdx)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("read uvs: %w", err)
				}
			}

			base := uint32(len(vertices))
			for i, p := range positions {
				v := pipeline.Vertex{
					Position: p,
					Color:    vmath.Vec4{X: 1, Y: 1, Z: 1, W: 1},
				}
				if i < len(normals) {
					v.Normal = normals[i]
				}
				if i < len(uvs) {
					// glTF has v=0 at the top; this module's Sampler has
					// v=0 at the bottom, so flip.
					v.Texcoord = vmath.Vec2{X: uvs[i].X, Y: 1 - uvs[i].Y}
				}
				vertices = append(vertices, v)
			}

			if prim.Indices != nil {
				idx, err := readIndices(doc, *prim.Indices)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("read indices: %w", err)
				}
				// glTF winds CCW for front faces; this pipeline's backface
				// test treats CW (in Y-down screen space) as front, so
				// swap the last two indices of each triangle.
				for i := 0; i+2 < len(idx); i += 3 {
					indices = append(indices, base+uint32(idx[i]), base+uint32(idx[i+2]), base+uint32(idx[i+1]))
				}
			} else {
				for i := 0; i+2 < len(positions); i += 3 {
					indices = append(indices, base+uint32(i), base+uint32(i+2), base+uint32(i+1))
				}
			}
		}
	}

	if len(vertices) == 0 {
		return nil, nil, nil, fmt.Errorf("no triangle geometry found in %s", path)
	}

	hasNormals := false
	for _, v := range vertices {
		if v.Normal.LenSq() > 1e-9 {
			hasNormals = true
			break
		}
	}
	if !hasNormals {
		computeSmoothNormals(vertices, indices)
	}

	return vertices, indices, firstEmbeddedImage(doc), nil
}

// computeSmoothNormals accumulates per-face area-weighted normals at each
// vertex and renormalizes, for meshes that arrive without NORMAL attributes.
func computeSmoothNormals(vertices []pipeline.Vertex, indices []uint32) {
	accum := make([]vmath.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := vertices[b].Position.Sub(vertices[a].Position).Cross(vertices[c].Position.Sub(vertices[a].Position))
		accum[a] = accum[a].Add(n)
		accum[b] = accum[b].Add(n)
		accum[c] = accum[c].Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = accum[i].Normalize()
	}
}

func firstEmbeddedImage(doc *gltf.Document) image.Image {
	for _, img := range doc.Images {
		if img.BufferView == nil {
			continue
		}
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			continue
		}
		data := buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return decoded
		}
	}
	return nil
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]vmath.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}
	result := make([]vmath.Vec3, len(floats))
	for i, f := range floats {
		result[i] = vmath.Vec3{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
	}
	return result, nil
}

func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]vmath.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}
	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}
	result := make([]vmath.Vec2, len(floats))
	for i, f := range floats {
		result[i] = vmath.Vec2{X: float64(f[0]), Y: float64(f[1])}
	}
	return result, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw little-endian data from a GLTF accessor's
// backing buffer view. Only embedded (GLB-style) buffers are supported.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, fmt.Errorf("external buffers not supported")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(buffer.Data[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(buffer.Data[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			if stride == 0 {
				stride = 1
			}
			result := make([]uint8, count)
			for i := range count {
				result[i] = buffer.Data[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			if stride == 0 {
				stride = 2
			}
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(buffer.Data[offset]) | uint16(buffer.Data[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			if stride == 0 {
				stride = 4
			}
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(buffer.Data[offset]) |
					uint32(buffer.Data[offset+1])<<8 |
					uint32(buffer.Data[offset+2])<<16 |
					uint32(buffer.Data[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v/%v", accessor.Type, accessor.ComponentType)
}

func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
