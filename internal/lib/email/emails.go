package email

import (
	"encoding/json"
	"fmt"
)

const (
	storySubject   = "Discover your York County story"
	storyPreheader = "Here are the sites you saved during today’s visit."

	audioSubject   = "Your Story Audio, from York County History Center"
	audioPreheader = "Here’s your audio recording from the York County History Center."

	recordingAttached = "Your recording is attached. You answered the question: “%s”"
	archiveRequest    = "If you would like your York County memories to be part of our archives, please forward your recording and the attached permission form to: stories@yorkhistorycenter.org."
	archiveConfirmed  = "Your York County memories are now part of the history center’s archives. We may reach out to you in the future for more information about your story."
)

// NewStoryMessage builds the "your-story" email.
//
// sites is forwarded verbatim as the "sites" merge var; the template
// iterates over it.
func NewStoryMessage(from From, to string, sites json.RawMessage) *Message {
	return newMessage(from, to, storySubject, []MergeVar{
		{Name: "preheader", Content: storyPreheader},
		{Name: "sites", Content: sites},
	})
}

// NewAudioMessage builds the "audio-booth" email with the recording attached.
func NewAudioMessage(from From, to, question string, isMinor bool, recording Attachment) *Message {
	header, p1, p2 := AudioParagraphs(question, isMinor)

	msg := newMessage(from, to, audioSubject, []MergeVar{
		{Name: "preheader", Content: audioPreheader},
		{Name: "header", Content: header},
		{Name: "p1", Content: p1},
		{Name: "p2", Content: p2},
	})
	msg.Attachments = []Attachment{recording}

	return msg
}

// AudioParagraphs picks the header and the two paragraphs of the audio email.
//
// Minors are asked to forward the recording with a permission form; adults
// are told the memory is archived. The sentence quoting the question lands
// in p1 for minors and in p2 for adults.
func AudioParagraphs(question string, isMinor bool) (header, p1, p2 string) {
	quoted := fmt.Sprintf(recordingAttached, question)

	if isMinor {
		return "Thank You for Recording", quoted, archiveRequest
	}

	return "Thank You for Sharing", archiveConfirmed, quoted
}
