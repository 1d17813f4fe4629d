package skill

// Speech is the spoken part of a response. Exactly one of Text or SSML is set.
type Speech struct {
	Text string
	SSML string
}

// Card is the companion display card.
type Card struct {
	Title   string
	Content string
}

type DirectiveKind uint8

const (
	DirectivePlay DirectiveKind = iota + 1
	DirectiveStop
)

// Directive instructs the platform audio player. URL, Token and
// OffsetMilliseconds are only meaningful for DirectivePlay, which always
// replaces the whole queue.
type Directive struct {
	Kind               DirectiveKind
	URL                string
	Token              string
	OffsetMilliseconds int64
}

// Response is the dispatcher's answer. The zero Response is the empty
// acknowledgement sent for events that expect no reply.
type Response struct {
	Speech     *Speech
	Card       *Card
	Directives []Directive
	EndSession bool
}

// Empty reports whether r is a bare acknowledgement.
func (r Response) Empty() bool {
	return r.Speech == nil && r.Card == nil && len(r.Directives) == 0
}

func say(text string, endSession bool) Response {
	return Response{Speech: &Speech{Text: text}, EndSession: endSession}
}

func stopPlayback(text string) Response {
	r := say(text, true)
	r.Directives = []Directive{{Kind: DirectiveStop}}
	return r
}

func play(text string, p playTarget) Response {
	r := say(text, true)
	r.Directives = []Directive{{
		Kind:               DirectivePlay,
		URL:                p.url,
		Token:              p.token,
		OffsetMilliseconds: p.offset,
	}}
	return r
}

type playTarget struct {
	url    string
	token  string
	offset int64
}
