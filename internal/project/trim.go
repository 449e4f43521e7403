package project

// Trim returns a deep copy with regenerable media payloads removed: calendar
// day images and videos, ad creative images and videos, generated KOL photos,
// and generated infographic output. These payloads are what blows the storage
// quota; they are not recoverable from the store and must be regenerated.
//
// User-provided references survive: the KOL DNA image, the uploaded product
// photo, and template previews are inputs, not regenerable output.
func Trim(s *Snapshot) *Snapshot {
	out := s.Clone()
	if out == nil {
		return nil
	}

	for i := range out.Calendar {
		d := out.Calendar[i].Details
		if d == nil {
			continue
		}
		d.GeneratedImage = ""
		d.GeneratedImages = nil
		d.GeneratedVideo = "" // blob URLs are invalid after a reload anyway
	}

	for i := range out.AdsCampaigns {
		content := &out.AdsCampaigns[i].Data.AdContent
		content.GeneratedImage = ""
		content.GeneratedVideo = ""
	}

	if out.KOL != nil {
		out.KOL.GeneratedImages = []string{}
	}

	if out.Infographic != nil {
		// The generated prompt is plain text and cheap; only the images go.
		out.Infographic.GeneratedImage = ""
		out.Infographic.GeneratedImages = []string{}
	}

	return out
}
