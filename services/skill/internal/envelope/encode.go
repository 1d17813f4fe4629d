package envelope

import "github.com/example/morning-report/internal/skill"

const version = "1.0"

type ResponseEnvelope struct {
	Version  string       `json:"version"`
	Response responseBody `json:"response"`
}

type responseBody struct {
	OutputSpeech     *outputSpeech `json:"outputSpeech,omitempty"`
	Card             *card         `json:"card,omitempty"`
	Directives       []directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type outputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

type card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type directive struct {
	Type         string     `json:"type"`
	PlayBehavior string     `json:"playBehavior,omitempty"`
	AudioItem    *audioItem `json:"audioItem,omitempty"`
}

type audioItem struct {
	Stream stream `json:"stream"`
}

type stream struct {
	URL                  string `json:"url"`
	Token                string `json:"token"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds"`
}

// Encode builds the response envelope. The empty skill.Response becomes
// {"version":"1.0","response":{}}.
func Encode(r skill.Response) ResponseEnvelope {
	env := ResponseEnvelope{Version: version}
	if r.Empty() {
		return env
	}
	body := &env.Response
	if r.Speech != nil {
		if r.Speech.SSML != "" {
			body.OutputSpeech = &outputSpeech{Type: "SSML", SSML: r.Speech.SSML}
		} else {
			body.OutputSpeech = &outputSpeech{Type: "PlainText", Text: r.Speech.Text}
		}
	}
	if r.Card != nil {
		body.Card = &card{Type: "Simple", Title: r.Card.Title, Content: r.Card.Content}
	}
	for _, d := range r.Directives {
		switch d.Kind {
		case skill.DirectivePlay:
			body.Directives = append(body.Directives, directive{
				Type:         "AudioPlayer.Play",
				PlayBehavior: "REPLACE_ALL",
				AudioItem: &audioItem{Stream: stream{
					URL:                  d.URL,
					Token:                d.Token,
					OffsetInMilliseconds: d.OffsetMilliseconds,
				}},
			})
		case skill.DirectiveStop:
			body.Directives = append(body.Directives, directive{Type: "AudioPlayer.Stop"})
		}
	}
	end := r.EndSession
	body.ShouldEndSession = &end
	return env
}
