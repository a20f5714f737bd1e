package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/gemini"
	"blueprint-studio/internal/generation"
	"blueprint-studio/internal/mediagroup"
	"blueprint-studio/internal/product"
	"blueprint-studio/internal/render"
	"blueprint-studio/internal/session"
	"blueprint-studio/internal/telegram"
)

// Messenger is the part of the Telegram client the wizard talks to.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendTextWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error)
	EditTextWithKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID string, text string, alert bool) error
	SendTyping(chatID int64)
	DownloadDataURL(ctx context.Context, fileID string) (string, error)
}

// Generator compiles and runs a configuration.
type Generator interface {
	Compile(cfg product.Configuration) brief.Brief
	Generate(ctx context.Context, cfg product.Configuration) (generation.Result, error)
}

type Options struct {
	Telegram  Messenger
	Generator Generator
	Sessions  *session.Store
	Logger    *slog.Logger
	// AlbumDebounce is how long an album must stay quiet before it is
	// treated as one reference photo.
	AlbumDebounce time.Duration
}

type Handler struct {
	tg       Messenger
	gen      Generator
	sessions *session.Store
	ui       *uiStore
	albums   *mediagroup.Aggregator
	logger   *slog.Logger
}

const albumDownloadTimeout = time.Minute

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		tg:       opts.Telegram,
		gen:      opts.Generator,
		sessions: opts.Sessions,
		ui:       newUIStore(),
		logger:   logger,
	}
	h.albums = mediagroup.New(mediagroup.Options{
		Debounce: opts.AlbumDebounce,
		OnFlush:  h.handleAlbum,
	})
	return h
}

// Close drops albums that are still being collected.
func (h *Handler) Close() {
	h.albums.Stop()
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, msg)
	}

	if len(msg.Photo) > 0 {
		return h.handlePhoto(ctx, chatID, userID, msg)
	}

	if msg.Text != "" {
		return h.handleText(chatID, userID, msg.Text)
	}

	return nil
}

// SweepUI drops wizard menus idle for longer than the session TTL.
func (h *Handler) SweepUI(ttl time.Duration) int {
	return h.ui.Sweep(ttl)
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, userID int64, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start", "new":
		return h.startWizard(chatID, userID, strings.TrimSpace(msg.CommandArguments()))
	case "help":
		return h.tg.SendText(chatID,
			"📸 Product Blueprint Studio\n\n"+
				"Describe a product with the buttons and get production-ready photography prompts.\n\n"+
				"Commands:\n"+
				"/start [name] - start a new product\n"+
				"/menu - show the settings menu again\n"+
				"/prompt - show the compiled directive\n"+
				"/generate - generate the blueprints\n"+
				"/reset - back to defaults\n"+
				"/cancel - stop waiting for text input\n\n"+
				"Send a photo at any time to use it as the product reference.",
		)
	case "menu":
		h.sessions.GetOrCreate(sessionID(chatID, userID))
		return h.renderWizard(chatID, userID, 0, false)
	case "cancel":
		h.ui.Update(chatID, userID, func(st *uiState) { st.Awaiting = inputNone })
		return h.renderWizard(chatID, userID, 0, false)
	case "reset":
		h.resetSession(chatID, userID)
		return h.renderWizard(chatID, userID, 0, false)
	case "prompt":
		return h.sendPrompt(chatID, userID)
	case "generate":
		return h.generate(ctx, chatID, userID)
	default:
		return h.tg.SendText(chatID, "❌ Unknown command. Try /help.")
	}
}

func (h *Handler) startWizard(chatID int64, userID int64, name string) error {
	id := sessionID(chatID, userID)
	h.sessions.Create(id)

	awaiting := inputName
	if name != "" {
		h.sessions.Update(id, func(cfg product.Configuration) product.Configuration {
			return product.Patch{Name: &name}.Apply(cfg)
		})
		awaiting = inputNone
	}
	h.ui.Update(chatID, userID, func(st *uiState) {
		st.Menu = menuMain
		st.Awaiting = awaiting
		st.MessageID = 0
	})
	return h.renderWizard(chatID, userID, 0, false)
}

func (h *Handler) resetSession(chatID int64, userID int64) {
	id := sessionID(chatID, userID)
	if _, ok := h.sessions.Reset(id); !ok {
		h.sessions.Create(id)
	}
	h.ui.Update(chatID, userID, func(st *uiState) {
		st.Menu = menuMain
		st.Awaiting = inputName
	})
}

func (h *Handler) handleText(chatID int64, userID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	st := h.ui.Get(chatID, userID)
	if st.Awaiting == inputNone {
		return h.tg.SendText(chatID, "Use the menu buttons to edit the product, or /help.")
	}

	var p product.Patch
	switch st.Awaiting {
	case inputName:
		p.Name = &text
	case inputPackSize:
		isPack := true
		p.PackSize = &text
		p.IsPack = &isPack
	case inputPersona:
		enabled := true
		p.ModelPersona = &text
		p.ModelEnabled = &enabled
	case inputAccessories:
		p.Effects = &product.EffectsPatch{Accessories: splitList(text)}
	}

	h.sessions.GetOrCreate(sessionID(chatID, userID))
	h.sessions.Update(sessionID(chatID, userID), p.Apply)
	h.ui.Update(chatID, userID, func(st *uiState) { st.Awaiting = inputNone })
	return h.renderWizard(chatID, userID, 0, false)
}

func (h *Handler) handlePhoto(ctx context.Context, chatID int64, userID int64, msg *tgbotapi.Message) error {
	photo := msg.Photo[len(msg.Photo)-1]

	buffered := h.albums.Add(mediagroup.Photo{
		ChatID:       chatID,
		UserID:       userID,
		MediaGroupID: msg.MediaGroupID,
		Caption:      msg.Caption,
		FileID:       photo.FileID,
	})
	if buffered {
		return nil
	}
	return h.setReference(ctx, chatID, userID, photo.FileID, msg.Caption, "")
}

func (h *Handler) handleAlbum(album mediagroup.Album) {
	ctx, cancel := context.WithTimeout(context.Background(), albumDownloadTimeout)
	defer cancel()

	note := ""
	if len(album.FileIDs) > 1 {
		note = fmt.Sprintf("\nAlbum of %d photos: the first one is used.", len(album.FileIDs))
	}
	if err := h.setReference(ctx, album.ChatID, album.UserID, album.First(), album.Caption, note); err != nil {
		h.logger.Error("album handling failed", "chat_id", album.ChatID, "err", err)
	}
}

func (h *Handler) setReference(ctx context.Context, chatID int64, userID int64, fileID string, caption string, note string) error {
	h.tg.SendTyping(chatID)
	image, err := h.tg.DownloadDataURL(ctx, fileID)
	if err != nil {
		h.logger.Error("reference photo download failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not download the photo. Please send it again.")
	}

	id := sessionID(chatID, userID)
	h.sessions.GetOrCreate(id)
	h.sessions.Update(id, product.Patch{ReferenceImage: &image}.Apply)

	if caption = strings.TrimSpace(caption); caption != "" && h.ui.Get(chatID, userID).Awaiting == inputName {
		h.sessions.Update(id, product.Patch{Name: &caption}.Apply)
		h.ui.Update(chatID, userID, func(st *uiState) { st.Awaiting = inputNone })
	}

	_ = h.tg.SendText(chatID, "✅ Reference photo saved. Every blueprint will describe this exact product."+note)
	return h.renderWizard(chatID, userID, 0, false)
}

func (h *Handler) sendPrompt(chatID int64, userID int64) error {
	sess := h.sessions.GetOrCreate(sessionID(chatID, userID))
	b := h.gen.Compile(sess.Config)
	text := fmt.Sprintf("📄 Directive (%d variants)\n\n%s\n\n%s", b.VariantCount, b.SystemInstruction, b.UserPrompt)
	return h.tg.SendText(chatID, text)
}

func (h *Handler) generate(ctx context.Context, chatID int64, userID int64) error {
	id := sessionID(chatID, userID)
	h.sessions.GetOrCreate(id)

	run, ok := h.sessions.Begin(id)
	if !ok {
		return h.tg.SendText(chatID, "⏳ A generation is already running for this product.")
	}
	defer run.Release()
	sess := run.Session

	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, fmt.Sprintf("🎨 Generating %d blueprints, please wait...", brief.VariantCount(sess.Config)))

	res, err := h.gen.Generate(ctx, sess.Config)
	if err != nil {
		return h.sendGenerateError(chatID, userID, err)
	}

	if !run.Finish(res.Variants) {
		h.logger.Info("session reset during generation, batch dropped", "chat_id", chatID)
		return h.tg.SendText(chatID, "⚠️ The product was reset while generating, so these blueprints were discarded. Generate again when ready.")
	}
	for i, v := range res.Variants {
		if err := h.tg.SendText(chatID, render.Plain(i, v)); err != nil {
			return err
		}
	}
	return h.tg.SendText(chatID, fmt.Sprintf("✅ Done: %d blueprints. Adjust the settings and generate again, or /reset.", len(res.Variants)))
}

func (h *Handler) sendGenerateError(chatID int64, userID int64, err error) error {
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		h.ui.Update(chatID, userID, func(st *uiState) { st.Awaiting = inputName })
		return h.tg.SendText(chatID, "✏️ The product needs a name first. Send it as a message.")
	}

	h.logger.Error("generation failed", "chat_id", chatID, "kind", gemini.KindOf(err).String(), "err", err)

	var gerr *gemini.Error
	if errors.As(err, &gerr) {
		return h.tg.SendText(chatID, "❌ "+gerr.UserMessage())
	}
	return h.tg.SendText(chatID, "❌ Generation failed. Please try again later.")
}

func sessionID(chatID int64, userID int64) string {
	return fmt.Sprintf("tg:%d:%d", chatID, userID)
}

func splitList(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' || r == ';' })
}
