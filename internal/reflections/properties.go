package reflections

// Temporary targets declared to the host pool.
const (
	MaskTargetName     = "specular_mask"
	RadianceTargetName = "specular_radiance"
)

// Shader bindings shared with the ray generation, temporal and copy programs.
const (
	PropSpecularMask          = "_RT_SpecularMask"
	PropSpecularRadiance      = "_RT_SpecularRadiance"
	PropAccelerationStructure = "_RaytracingAccelerationStructure"
	PropCameraToWorld         = "_CameraToWorld"
	PropCameraInverseProj     = "_CameraInverseProjection"
	PropSpreadAngle           = "_SpreadAngle"
	PropNumPrimarySamples     = "_NumPrimarySamples"
	PropNumReflectionSamples  = "_NumReflectionSamples"
	PropFrameCounter          = "_FrameCounter"
	PropCullPeripheryRays     = "_CullPeripheryRays"

	PropTemporalTexture    = "_TemporalAATexture"
	PropInverseProjection  = "_invP"
	PropFrameMatrix        = "_FrameMatrix"
	PropDebugCameraToWorld = "_Debug_CameraToWorldMatrix"
	PropTemporalFade       = "_TemporalFade"
	PropResolutionX        = "_ResolutionX"
	PropResolutionY        = "_ResolutionY"
	PropMainTex            = "_MainTex"
	PropCopySource         = "_CopySourceTex"

	PropDrawObjectPassData = "_DrawObjectPassData"
	PropScaleBiasRt        = "_ScaleBiasRt"
)

const (
	ShaderPassPrimary = "PrimaryPass"
	RayGenPrimary     = "PrimaryRayGeneration"
	SpecularMaskTag   = "SpecularMask"

	traceSampleName = "Raytrace Specular"
	maskSampleName  = "Custom Object Pass"
)

// uiLayer is excluded from the acceleration structure.
const uiLayer = 5

// ShaderNames lists the assets the feature resolves through the resource provider.
type ShaderNames struct {
	Copy           string
	Temporal       string
	RayGen         string
	RayGenViewport string
}

func DefaultShaderNames() ShaderNames {
	return ShaderNames{
		Copy:           "CustomShaders/AddTexture",
		Temporal:       "CustomShaders/TemporalAAShader",
		RayGen:         "RTReflections/PrimaryRays",
		RayGenViewport: "RTReflections/PrimaryRaysViewport",
	}
}
