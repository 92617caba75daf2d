// Package shader defines the vertex/fragment stage contracts and the
// Blinn-Phong + Schlick-Fresnel lighting kernel the pipeline invokes per
// covered pixel.
package shader

import (
	"math"

	"github.com/go3d/raster3d/pkg/texture"
	"github.com/go3d/raster3d/pkg/vmath"
)

// VertexInput is what InputAssembler extracts from a raw vertex before the
// vertex shader runs.
type VertexInput struct {
	Position vmath.Vec3
	Normal   vmath.Vec3
	Texcoord vmath.Vec2
	Color    vmath.Vec4
}

// FragmentInput is what the vertex shader hands to the fragment shader,
// already perspective-correct-interpolated by the pipeline.
type FragmentInput struct {
	WorldPos vmath.Vec3
	Normal   vmath.Vec3
	Texcoord vmath.Vec2
	Color    vmath.Vec4
}

// Uniforms bundles the per-draw transforms and material/lighting state a
// shader needs. It is passed by value into Program so a pipeline can swap
// shaders between draws without aliasing state.
type Uniforms struct {
	World        vmath.Mat4
	View         vmath.Mat4
	Proj         vmath.Mat4
	NormalMatrix vmath.Mat3
	EyePos       vmath.Vec3

	Albedo    texture.Texture
	Sampler   texture.Sampler
	DiffAlbedo vmath.Vec4

	Roughness float64
	R0        float64 // Fresnel reflectance at normal incidence

	Ambient vmath.Vec3
	Lights  []Light
}

// LightKind selects the attenuation/direction model for a Light.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// Light is a single light source contributing to the lighting kernel.
type Light struct {
	Kind      LightKind
	Direction vmath.Vec3 // directional, spot: direction the light travels; point: weights strength by N·Direction
	Position  vmath.Vec3 // point, spot
	Color     vmath.Vec3
	SpotPower float64
}

// InputAssembler extracts a VertexInput from a raw vertex's fields.
func InputAssembler(position, normal vmath.Vec3, texcoord vmath.Vec2, color vmath.Vec4) VertexInput {
	return VertexInput{Position: position, Normal: normal, Texcoord: texcoord, Color: color}
}

// VertexShader transforms a VertexInput to clip space, filling out a
// FragmentInput for downstream interpolation. It returns the clip-space
// position (view*proj applied to the world-space homogeneous point).
func VertexShader(in VertexInput, u Uniforms) (clipPos vmath.Vec4, frag FragmentInput) {
	worldPos := u.World.MulVec3(in.Position)
	normal := u.NormalMatrix.MulVec3(in.Normal)

	frag = FragmentInput{
		WorldPos: worldPos,
		Normal:   normal,
		Texcoord: in.Texcoord,
		Color:    in.Color,
	}

	viewProj := u.View.Multiply(u.Proj)
	clipPos = viewProj.MulVec4(worldPos.V4(1))
	return clipPos, frag
}

// FragmentShader samples the albedo texture, modulates it by the
// interpolated vertex color and the material's diffuse albedo tint, applies
// Blinn-Phong + Schlick lighting and returns the composited,
// alpha-preserved, RGB-saturated color.
func FragmentShader(in FragmentInput, u Uniforms) vmath.Vec4 {
	texel := u.Albedo.Sample(u.Sampler, in.Texcoord)
	albedo := texel.Mul(u.DiffAlbedo).Mul(in.Color)

	n := in.Normal.Normalize()
	toEye := u.EyePos.Sub(in.WorldPos).Normalize()

	lit := u.Ambient
	for _, l := range u.Lights {
		lit = lit.Add(shadeLight(l, in.WorldPos, n, toEye, albedo.Vec3(), u.Roughness, u.R0))
	}

	out := lit.Mul(albedo.Vec3())
	return out.V4(albedo.W).Saturate()
}

// shadeLight evaluates the Blinn-Phong + Schlick kernel for a single light,
// returning its contribution toward the sum that FragmentShader modulates
// by albedo once more: the diffuse term (albedo + specular) is scaled by
// light strength here, then multiplied by albedo a second time by the
// caller alongside the ambient term, so a light's diffuse response ends up
// proportional to albedo squared while its specular highlight stays
// proportional to albedo (material tinting the highlight) times strength.
func shadeLight(l Light, worldPos, n, toEye, albedo vmath.Vec3, roughness, r0 float64) vmath.Vec3 {
	var lightVec vmath.Vec3
	var strength float64

	switch l.Kind {
	case LightDirectional:
		lightVec = l.Direction.Negate().Normalize()
		strength = math.Max(0, n.Dot(lightVec))
	case LightPoint:
		toLight := l.Position.Sub(worldPos)
		dist2 := toLight.LenSq()
		lightVec = toLight.Normalize()
		strength = math.Max(0, n.Dot(l.Direction)) / math.Max(dist2, 1e-6)
	case LightSpot:
		toLight := l.Position.Sub(worldPos)
		dist2 := toLight.LenSq()
		lightVec = toLight.Normalize()
		strength = math.Max(0, n.Dot(l.Direction)) / math.Max(dist2, 1e-6)
		spotFactor := math.Max(0, -lightVec.Dot(l.Direction))
		strength *= math.Pow(spotFactor, l.SpotPower)
	}

	if strength <= 0 {
		return vmath.Vec3{}
	}

	shininess := (1 - roughness) * 256
	h := toEye.Add(lightVec).Normalize()
	nh := math.Max(0, n.Dot(h))
	roughnessFactor := (shininess + 8) / 8 * math.Pow(nh, shininess)
	fresnel := schlick(r0, math.Max(0, n.Dot(lightVec)))
	specular := roughnessFactor * fresnel

	diffuseAndSpecular := albedo.Add(vmath.Vec3{X: specular, Y: specular, Z: specular})
	return l.Color.Mul(diffuseAndSpecular).Scale(strength)
}

// schlick is Schlick's approximation to the Fresnel reflectance:
// R0 + (1-R0)*(1-cosTheta)^5.
func schlick(r0, cosTheta float64) float64 {
	return r0 + (1-r0)*math.Pow(1-cosTheta, 5)
}
