// Package epic provides a client for the Earth Polychromatic Imaging Camera
// API, which serves daily full-disc images of Earth taken from the L1
// Lagrange point.
//
// The API returns metadata only. Use [ImageURL] to build the archive URL of
// the image file itself:
//
//	imgs, err := client.Latest(ctx, epic.Natural)
//	url, err := epic.ImageURL("", epic.Natural, imgs[0], epic.PNG)
package epic
