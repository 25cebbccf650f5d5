package email

import "encoding/json"

// PreviewData contains sample merge vars for rendering templates locally.
//
// It maps:
//
//	templateName -> (mergeVarName -> exampleValue)
var PreviewData = map[Template]map[string]interface{}{
	TemplateYourStory: {
		"preheader": storyPreheader,
		"sites":     json.RawMessage(`[{"siteName":"Colonial Complex","locationInfo":"157 W Market St","curatorCollection":"Furniture","address":"York, PA","thumbnail":"https://example.org/colonial.jpg"}]`),
	},
	TemplateAudioBooth: {
		"preheader": audioPreheader,
		"header":    "Thank You for Recording",
		"p1":        "Your recording is attached. You answered the question: “What is your favorite York County memory?”",
		"p2":        archiveRequest,
	},
}
