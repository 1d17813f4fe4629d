package skill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/example/morning-report/internal/platform/analytics"
	"github.com/example/morning-report/internal/platform/metrics"
	"github.com/example/morning-report/internal/records"
	"github.com/example/morning-report/internal/speech"
)

// Store is the slice of records.Repository the dispatcher needs.
type Store interface {
	Report(ctx context.Context) (records.Report, error)
	Podcasts(ctx context.Context) ([]records.Podcast, error)
	Latest(ctx context.Context) (records.Latest, error)
	Position(ctx context.Context, userID string) (records.Position, error)
	SavePosition(ctx context.Context, p records.Position) error
	DeletePosition(ctx context.Context, userID string) error
}

// Events receives fire-and-forget business events. *analytics.Publisher
// satisfies it.
type Events interface {
	Publish(subject, eventName, userID string, props map[string]any)
}

// maxCardContent is the platform limit for a simple card body.
const maxCardContent = 8000

type Option func(*Dispatcher)

// WithSpeechOptions overrides the report rendering pauses and length budget.
func WithSpeechOptions(o speech.Options) Option {
	return func(d *Dispatcher) { d.speech = o }
}

// WithSilentUnrecognized makes unrecognized requests answer with an empty
// acknowledgement instead of the "not understood" prompt.
func WithSilentUnrecognized(silent bool) Option {
	return func(d *Dispatcher) { d.silentUnrecognized = silent }
}

func WithEvents(e Events) Option {
	return func(d *Dispatcher) { d.events = e }
}

// Dispatcher is stateless between calls; all per-user state lives in the
// Store. It is safe for concurrent use.
type Dispatcher struct {
	store              Store
	log                *zap.Logger
	speech             speech.Options
	silentUnrecognized bool
	events             Events
}

func New(store Store, log *zap.Logger, opts ...Option) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{store: store, log: log, speech: speech.DefaultOptions()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle resolves one request. It never fails: store errors and panics are
// turned into apology prompts, and events that expect no reply get the empty
// Response.
func (d *Dispatcher) Handle(ctx context.Context, userID string, req Request) (resp Response) {
	userKey := records.PositionKey(userID)
	kind := "unrecognized"
	if req != nil {
		kind = req.kind()
	}
	log := d.log.With(zap.String("user_key", userKey), zap.String("kind", kind))

	defer func() {
		outcome := "spoken"
		if rec := recover(); rec != nil {
			metrics.SkillPanicsTotal.Inc()
			log.Error("skill: recovered panic", zap.Any("panic", rec))
			resp = say(promptErrorUnavailable, true)
			outcome = "panic"
		} else if resp.Empty() {
			outcome = "empty"
		}
		metrics.SkillRequestsTotal.WithLabelValues(kind, outcome).Inc()
	}()

	switch r := req.(type) {
	case Launch:
		log.Info("skill: launch")
		return say(promptWelcome+promptMenu, false)
	case Intent:
		return d.intent(ctx, log, userID, r)
	case AudioPlayerEvent:
		d.audio(ctx, log, userID, r)
		return Response{}
	case SessionEnded:
		log.Info("skill: session ended", zap.String("reason", r.Reason))
		return Response{}
	case PlatformError:
		fields := []zap.Field{zap.String("error_type", r.Kind), zap.String("message", r.Message)}
		if r.Kind == BenignPlatformError {
			log.Warn("skill: platform reported error", fields...)
		} else {
			log.Error("skill: platform reported error", fields...)
		}
		return Response{}
	case Unrecognized:
		return d.unrecognized(log, r.Type)
	default:
		return d.unrecognized(log, fmt.Sprintf("%T", req))
	}
}

func (d *Dispatcher) intent(ctx context.Context, log *zap.Logger, userID string, in Intent) Response {
	log = log.With(zap.String("intent", in.Name))
	switch in.Name {
	case IntentReadReport, IntentReadMorningReport:
		return d.readReport(ctx, log, userID)
	case IntentPlayPodcast:
		return d.playLatest(ctx, log, userID)
	case IntentWhatIsNew:
		return d.whatIsNew(ctx, log)
	case IntentHelp:
		return say(promptMenu, false)
	case IntentStop, IntentCancel:
		if err := d.store.DeletePosition(ctx, userID); err != nil {
			d.storeFailure(log, "delete_position", err)
		}
		return stopPlayback(promptGoodBye)
	case IntentPause:
		return stopPlayback(promptPause)
	case IntentResume:
		return d.resume(ctx, log, userID)
	case IntentLoopOn, IntentLoopOff, IntentShuffleOn, IntentShuffleOff,
		IntentNext, IntentPrevious, IntentRepeat, IntentStartOver:
		log.Warn("skill: intent not supported")
		return say(promptNotSupported, true)
	default:
		log.Warn("skill: intent not recognized")
		return say(promptNotUnderstood+promptMenu, false)
	}
}

func (d *Dispatcher) readReport(ctx context.Context, log *zap.Logger, userID string) Response {
	rep, err := d.store.Report(ctx)
	if err != nil {
		d.storeFailure(log, "read_report", err)
		return say(promptErrorReport, true)
	}
	article, err := rep.Article()
	if err != nil {
		d.storeFailure(log, "parse_report", err)
		return say(promptErrorReport, true)
	}

	rendering := speech.RenderSSML(article, d.speech)
	if rendering.Truncated() {
		metrics.SpeechTruncatedTotal.Inc()
		log.Info("skill: report truncated",
			zap.Int("sections", rendering.Sections),
			zap.Int("emitted", rendering.Emitted),
		)
	}
	d.publish(analytics.SubjectReportRead, "report_read", userID, map[string]any{
		"title":     rep.Title,
		"truncated": rendering.Truncated(),
	})
	return Response{
		Speech:     &Speech{SSML: rendering.SSML},
		Card:       &Card{Title: rep.Title, Content: clip(speech.PlainText(article), maxCardContent)},
		EndSession: true,
	}
}

func (d *Dispatcher) playLatest(ctx context.Context, log *zap.Logger, userID string) Response {
	list, ok := d.podcasts(ctx, log)
	if !ok {
		return say(promptErrorPodcast, true)
	}
	if len(list) == 0 {
		return say(promptPodcastMissing+promptMenu, false)
	}
	p := list[0]
	d.publish(analytics.SubjectPodcastPlayed, "podcast_played", userID, map[string]any{"token": p.Token})
	return play(fmt.Sprintf(playingFormat, p.Title), playTarget{url: p.MediaURL, token: p.Token})
}

func (d *Dispatcher) resume(ctx context.Context, log *zap.Logger, userID string) Response {
	pos, err := d.store.Position(ctx, userID)
	switch {
	case errors.Is(err, records.ErrNotFound):
		return say(promptCannotResume+promptMenu, false)
	case err != nil:
		d.storeFailure(log, "read_position", err)
		return say(promptErrorPodcast, true)
	}

	list, ok := d.podcasts(ctx, log)
	if !ok {
		return say(promptErrorPodcast, true)
	}
	p, found := records.FindPodcast(list, pos.Token)
	if !found {
		log.Info("skill: resume token evicted", zap.String("token", pos.Token))
		return say(promptPodcastMissing+promptMenu, false)
	}
	d.publish(analytics.SubjectPodcastResumed, "podcast_resumed", userID, map[string]any{
		"token":     p.Token,
		"offset_ms": pos.OffsetMilliseconds,
	})
	return play(fmt.Sprintf(resumingFormat, p.Title), playTarget{
		url:    p.MediaURL,
		token:  p.Token,
		offset: pos.OffsetMilliseconds,
	})
}

// podcasts reads the collection. A collection that was never written is
// empty rather than a failure.
func (d *Dispatcher) podcasts(ctx context.Context, log *zap.Logger) ([]records.Podcast, bool) {
	list, err := d.store.Podcasts(ctx)
	if errors.Is(err, records.ErrNotFound) {
		return nil, true
	}
	if err != nil {
		d.storeFailure(log, "read_podcasts", err)
		return nil, false
	}
	return list, true
}

func (d *Dispatcher) whatIsNew(ctx context.Context, log *zap.Logger) Response {
	latest, err := d.store.Latest(ctx)
	if err != nil {
		d.storeFailure(log, "read_latest", err)
		return say(promptErrorWhatIsNew, true)
	}

	var b strings.Builder
	if latest.ReportErr == nil {
		fmt.Fprintf(&b, newReportFormat, latest.Report.PublishedAt.Format(summaryDateLayout), latest.Report.Title)
	} else if !errors.Is(latest.ReportErr, records.ErrNotFound) {
		d.storeFailure(log, "read_report", latest.ReportErr)
	}
	if latest.PodcastsErr == nil {
		if len(latest.Podcasts) > 0 {
			p := latest.Podcasts[0]
			fmt.Fprintf(&b, newPodcastFormat, p.PublishedAt.Format(summaryDateLayout), p.Title)
		}
	} else if !errors.Is(latest.PodcastsErr, records.ErrNotFound) {
		d.storeFailure(log, "read_podcasts", latest.PodcastsErr)
	}

	if b.Len() == 0 {
		return say(promptErrorWhatIsNew, true)
	}
	return say(b.String()+promptMenu, false)
}

func (d *Dispatcher) audio(ctx context.Context, log *zap.Logger, userID string, ev AudioPlayerEvent) {
	log = log.With(zap.Stringer("event", ev.Kind), zap.String("token", ev.Token))
	switch ev.Kind {
	case PlaybackStarted, PlaybackFinished:
		if err := d.store.DeletePosition(ctx, userID); err != nil {
			d.storeFailure(log, "delete_position", err)
		}
	case PlaybackStopped:
		offset := ev.OffsetMilliseconds
		if offset < 0 {
			offset = 0
		}
		err := d.store.SavePosition(ctx, records.Position{UserID: userID, Token: ev.Token, OffsetMilliseconds: offset})
		if err != nil {
			d.storeFailure(log, "save_position", err)
			return
		}
		log.Info("skill: playback position saved", zap.Int64("offset_ms", offset))
	case PlaybackFailed:
		log.Error("skill: playback failed",
			zap.String("error_type", ev.ErrorType),
			zap.String("message", ev.ErrorMessage),
		)
		d.publish(analytics.SubjectPlaybackFailed, "playback_failed", userID, map[string]any{
			"token":      ev.Token,
			"error_type": ev.ErrorType,
		})
	case PlaybackNearlyFinished:
	default:
		log.Warn("skill: unknown audio event")
	}
}

func (d *Dispatcher) unrecognized(log *zap.Logger, typ string) Response {
	log.Warn("skill: unrecognized request", zap.String("type", typ))
	if d.silentUnrecognized {
		return Response{}
	}
	return say(promptNotUnderstood+promptMenu, false)
}

func (d *Dispatcher) storeFailure(log *zap.Logger, op string, err error) {
	metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	log.Error("skill: store operation failed", zap.String("op", op), zap.Error(err))
}

func (d *Dispatcher) publish(subject, name, userID string, props map[string]any) {
	if d.events == nil {
		return
	}
	d.events.Publish(subject, name, records.PositionKey(userID), props)
}

func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit])
}
