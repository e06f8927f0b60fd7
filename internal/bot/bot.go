// Package bot classifies inbound WhatsApp messages and produces replies:
// a greeting gets the doctor list menu, a doctor selection gets a booking
// confirmation, everything else is dropped.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/whizorhealth/whizor-bot/internal/directory"
	"github.com/whizorhealth/whizor-bot/internal/monitor"
	"github.com/whizorhealth/whizor-bot/internal/whatsapp"
)

// Fixed reply texts.
const (
	listHeader       = "Welcome to Whizor Clinic 🏥"
	listBody         = "Please select a doctor to book an appointment."
	listFooter       = "Powered by Whizor"
	listButtonLabel  = "Find Doctor"
	listSectionTitle = "Available Doctors"

	noDoctorsText = "Sorry, no doctors are available right now."

	confirmationTemplate = "✅ Appointment booked with %s.\nYour token number is %d.\nEstimated wait: 15 minutes."
)

// docRowPrefix marks list rows that refer to a directory entry. The id after
// the prefix is the doctor id and round-trips unchanged through the platform.
const docRowPrefix = "doc_"

// directoryLimit caps how many doctors one list menu carries.
const directoryLimit = 10

// Sender issues outbound Cloud API calls.
type Sender interface {
	SendText(to, text string) (*whatsapp.SendMessageResponse, error)
	SendList(to string, list whatsapp.ListMessage) (*whatsapp.SendMessageResponse, error)
}

// Directory reads bookable doctors.
type Directory interface {
	ListDoctors(ctx context.Context, limit int) ([]directory.Doctor, error)
}

// Bot routes one inbound message to at most one reply.
type Bot struct {
	sender    Sender
	directory Directory
	logger    *slog.Logger
	events    *monitor.Hub
	token     func() int
}

// New creates a bot. events may be nil when the monitor feed is disabled.
func New(logger *slog.Logger, sender Sender, dir Directory, events *monitor.Hub) *Bot {
	return &Bot{
		sender:    sender,
		directory: dir,
		logger:    logger,
		events:    events,
		token:     func() int { return rand.Intn(20) + 1 },
	}
}

// HandleMessage classifies msg by type and dispatches the reply. It never
// returns an error: downstream failures are logged and published to the
// monitor feed, nothing propagates to the webhook response.
func (b *Bot) HandleMessage(ctx context.Context, msg whatsapp.Message) {
	b.events.Publish(monitor.NewEvent(monitor.KindInbound, msg.From, "type="+msg.Type))

	switch msg.Type {
	case "text":
		b.handleText(ctx, msg)
	case "interactive":
		b.handleInteractive(msg)
	default:
		b.drop(msg.From, "unsupported message type "+msg.Type)
	}
}

func (b *Bot) handleText(ctx context.Context, msg whatsapp.Message) {
	if msg.Text == nil {
		b.drop(msg.From, "text message without body")
		return
	}

	body := strings.ToLower(msg.Text.Body)
	b.logger.Info("received text", slog.String("from", msg.From), slog.String("body", body))

	// Substring match, not word match: "this" greets too. That is the
	// contract the platform users already rely on.
	if !strings.Contains(body, "hi") && !strings.Contains(body, "hello") {
		b.drop(msg.From, "no greeting keyword")
		return
	}

	b.sendDoctorList(ctx, msg.From)
}

func (b *Bot) handleInteractive(msg whatsapp.Message) {
	if msg.Interactive == nil {
		b.drop(msg.From, "interactive message without content")
		return
	}

	// Prefer the list reply; only list rows carry the doctor title, so a
	// button-originated doc_ selection confirms with an empty name.
	var id, title string
	switch {
	case msg.Interactive.ListReply != nil:
		id = msg.Interactive.ListReply.ID
		title = msg.Interactive.ListReply.Title
	case msg.Interactive.ButtonReply != nil:
		id = msg.Interactive.ButtonReply.ID
	default:
		b.drop(msg.From, "interactive reply without selection")
		return
	}

	if !strings.HasPrefix(id, docRowPrefix) {
		b.drop(msg.From, "selection "+id+" is not a doctor row")
		return
	}
	if title == "" {
		b.logger.Warn("doctor selection without title", slog.String("from", msg.From), slog.String("id", id))
	}

	b.sendBookingConfirmation(msg.From, title)
}

func (b *Bot) sendDoctorList(ctx context.Context, to string) {
	doctors, err := b.directory.ListDoctors(ctx, directoryLimit)
	if err != nil {
		b.logger.Error("directory read failed", slog.String("error", err.Error()))
		b.events.Publish(monitor.NewEvent(monitor.KindError, to, "directory read failed"))
		doctors = nil
	}

	if len(doctors) == 0 {
		b.sendText(to, noDoctorsText)
		return
	}

	rows := make([]whatsapp.Row, 0, len(doctors))
	for _, doc := range doctors {
		desc := doc.Specialization
		if desc == "" {
			desc = directory.DefaultSpecialization
		}
		rows = append(rows, whatsapp.Row{
			ID:          fmt.Sprintf("%s%d", docRowPrefix, doc.ID),
			Title:       doc.Name,
			Description: desc,
		})
	}

	list := whatsapp.ListMessage{
		Header:       listHeader,
		Body:         listBody,
		Footer:       listFooter,
		ButtonLabel:  listButtonLabel,
		SectionTitle: listSectionTitle,
		Rows:         rows,
	}

	if _, err := b.sender.SendList(to, list); err != nil {
		b.logger.Error("sending doctor list failed", slog.String("to", to), slog.String("error", err.Error()))
		b.events.Publish(monitor.NewEvent(monitor.KindError, to, "list send failed"))
		return
	}

	b.logger.Info("doctor list sent", slog.String("to", to), slog.Int("rows", len(rows)))
	b.events.Publish(monitor.NewEvent(monitor.KindReply, to, fmt.Sprintf("doctor list (%d rows)", len(rows))))
}

func (b *Bot) sendBookingConfirmation(to, doctorName string) {
	token := b.token()
	b.sendText(to, fmt.Sprintf(confirmationTemplate, doctorName, token))
}

func (b *Bot) sendText(to, body string) {
	if _, err := b.sender.SendText(to, body); err != nil {
		b.logger.Error("sending text failed", slog.String("to", to), slog.String("error", err.Error()))
		b.events.Publish(monitor.NewEvent(monitor.KindError, to, "text send failed"))
		return
	}

	b.logger.Info("text sent", slog.String("to", to))
	b.events.Publish(monitor.NewEvent(monitor.KindReply, to, "text"))
}

func (b *Bot) drop(from, reason string) {
	b.logger.Debug("message dropped", slog.String("from", from), slog.String("reason", reason))
	b.events.Publish(monitor.NewEvent(monitor.KindDrop, from, reason))
}
