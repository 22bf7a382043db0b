package studio

import (
	"fmt"
	"strings"
)

// Background selects the fixed backdrop description substituted into every
// shot prompt.
type Background string

const (
	BackgroundSolid    Background = "solid"
	BackgroundLogo     Background = "logo"
	BackgroundShowroom Background = "showroom"
)

// Shot identifies one of the three fixed portrait variants.
type Shot string

const (
	ShotFront Shot = "front"
	ShotSide  Shot = "side"
	ShotFull  Shot = "full"
)

// ErrUnknownBackground is returned when a background type outside the fixed
// set is requested. The check happens before any request is issued.
var ErrUnknownBackground = fmt.Errorf("unknown background type")

var backgroundPrompts = map[Background]string{
	BackgroundSolid: "a perfectly flat, solid light gray background (hex color #F3F4F6), " +
		"no shadows, no gradients, minimalist professional studio style",
	BackgroundLogo: "a perfectly flat, solid white background (hex color #FFFFFF) with the " +
		"specific dark blue Volkswagen circular logo (thin lines, minimalist 2D design, as seen " +
		"in brand guidelines) positioned exactly in the top right corner. The logo should be " +
		"clean, sharp, and high-contrast.",
	BackgroundShowroom: "a specific high-end Volkswagen showroom interior. On the left, a " +
		"silver Volkswagen Atlas SUV is parked. In the background, there is a large blue digital " +
		"screen with the text 'Welcome to Volkswagen'. The floor is polished light gray tile, " +
		"and there is a minimalist white reception desk. The lighting is bright, clean, and " +
		"professional.",
}

// shotSpec carries the per-shot template fragments. The subject line differs
// for the full-body shot; angle and pose are shot-specific.
type shotSpec struct {
	shot    Shot
	subject string
	angle   string
	pose    string
}

var shotSpecs = [3]shotSpec{
	{
		shot:    ShotFront,
		subject: "professional corporate portrait",
		angle:   "Upper body front shot",
		pose:    "Professional, friendly, standing straight, looking at the camera",
	},
	{
		shot:    ShotSide,
		subject: "professional corporate portrait",
		angle:   "Upper body 45-degree side shot, head turned slightly towards the camera",
		pose:    "Professional, friendly, confident",
	},
	{
		shot:    ShotFull,
		subject: "professional full-body corporate photo",
		angle:   "Full body shot from head to toe",
		pose:    "Standing professionally, confident posture, arms relaxed or slightly crossed",
	},
}

// BackgroundPrompt returns the fixed backdrop description for the given
// background type. The mapping is pure and total over the three known values.
func BackgroundPrompt(b Background) (string, error) {
	p, ok := backgroundPrompts[b]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBackground, b)
	}
	return p, nil
}

// buildShotPrompt assembles the full instruction text for one shot. Every
// shot demands standardized studio lighting that overrides the source image,
// professional attire, and strict facial likeness preservation.
func buildShotPrompt(spec shotSpec, background string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a %s of the person in the source image.\n", spec.subject)
	fmt.Fprintf(&sb, "Angle: %s.\n", spec.angle)
	fmt.Fprintf(&sb, "Pose: %s.\n", spec.pose)
	fmt.Fprintf(&sb, "Background: %s.\n", background)
	sb.WriteString("Lighting: Standardized professional studio lighting, soft shadows, neutral color temperature. " +
		"Ignore any lighting or background colors from the source image.\n")
	sb.WriteString("Style: High-quality photography, professional business attire.\n")
	sb.WriteString("The person's face and features must strictly match the source image.")
	return sb.String()
}
