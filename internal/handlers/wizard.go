package handlers

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/catalog"
	"blueprint-studio/internal/product"
	"blueprint-studio/internal/session"
)

const (
	callbackPrefix = "bp"
	menuMain       = "main"
)

// optionMenu is one pick-from-catalog submenu.
type optionMenu struct {
	key     string
	title   string
	values  func() []string
	current func(product.Configuration) []string
	apply   func(product.Configuration, string) product.Configuration
	multi   bool
}

func single(get func(product.Configuration) string) func(product.Configuration) []string {
	return func(cfg product.Configuration) []string { return []string{get(cfg)} }
}

func patchWith(set func(*product.Patch, *string)) func(product.Configuration, string) product.Configuration {
	return func(cfg product.Configuration, v string) product.Configuration {
		var p product.Patch
		set(&p, &v)
		return p.Apply(cfg)
	}
}

var optionMenus = []optionMenu{
	{
		key: "cat", title: "Category", values: catalog.Categories,
		current: single(func(c product.Configuration) string { return c.Category }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.Category = v }),
	},
	{
		key: "form", title: "Physical form", values: catalog.PhysicalForms,
		current: single(func(c product.Configuration) string { return c.PhysicalForm }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.PhysicalForm = v }),
	},
	{
		key: "box", title: "Container", values: catalog.ContainerTypes,
		current: single(func(c product.Configuration) string { return c.ContainerType }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.ContainerType = v }),
	},
	{
		key: "style", title: "Visual styles", values: catalog.VisualStyles, multi: true,
		current: func(c product.Configuration) []string { return c.Styles },
		apply:   func(c product.Configuration, v string) product.Configuration { return c.ToggleStyle(v) },
	},
	{
		key: "brand", title: "Brand positioning", values: catalog.BrandPositions,
		current: single(func(c product.Configuration) string { return c.BrandPositioning }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.BrandPositioning = v }),
	},
	{
		key: "light", title: "Lighting", values: catalog.LightingStyles,
		current: single(func(c product.Configuration) string { return c.LightingStyle }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.LightingStyle = v }),
	},
	{
		key: "cam", title: "Camera angle", values: catalog.CameraAngles,
		current: single(func(c product.Configuration) string { return c.CameraAngle }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.CameraAngle = v }),
	},
	{
		key: "ratio", title: "Aspect ratio", values: catalog.AspectRatios,
		current: single(func(c product.Configuration) string { return c.AspectRatio }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.AspectRatio = v }),
	},
	{
		key: "res", title: "Resolution", values: catalog.Resolutions,
		current: single(func(c product.Configuration) string { return c.Resolution }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.Resolution = v }),
	},
	{
		key: "dof", title: "Depth of field", values: catalog.DepthsOfField,
		current: single(func(c product.Configuration) string { return c.DepthOfField }),
		apply:   patchWith(func(p *product.Patch, v *string) { p.DepthOfField = v }),
	},
	{
		key: "mascot", title: "Mascot style", values: catalog.MascotStyles,
		current: single(func(c product.Configuration) string { return c.Effects.MascotStyle }),
		apply: func(c product.Configuration, v string) product.Configuration {
			return product.Patch{Effects: &product.EffectsPatch{MascotStyle: &v}}.Apply(c)
		},
	},
}

func findMenu(key string) (optionMenu, bool) {
	for _, m := range optionMenus {
		if m.key == key {
			return m, true
		}
	}
	return optionMenu{}, false
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}
	data := strings.TrimSpace(q.Data)
	if !strings.HasPrefix(data, callbackPrefix+":") {
		return nil
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 {
		return nil
	}

	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil
	}
	if ownerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "This menu belongs to someone else.", true)
		return nil
	}

	action := parts[2]
	args := parts[3:]
	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID
	id := sessionID(chatID, ownerID)
	h.sessions.GetOrCreate(id)

	h.ui.Update(chatID, ownerID, func(st *uiState) { st.MessageID = msgID })

	switch action {
	case "menu":
		if len(args) >= 1 {
			h.ui.Update(chatID, ownerID, func(st *uiState) { st.Menu = args[0] })
		}
	case "set":
		if len(args) >= 2 {
			h.applyOption(chatID, ownerID, args[0], args[1])
		}
	case "toggle":
		if len(args) >= 1 {
			h.sessions.Update(id, func(cfg product.Configuration) product.Configuration {
				return toggle(cfg, args[0])
			})
		}
	case "creative":
		if len(args) >= 1 {
			h.sessions.Update(id, func(cfg product.Configuration) product.Configuration {
				return stepCreative(cfg, args[0])
			})
		}
	case "ask":
		if len(args) >= 1 {
			h.ui.Update(chatID, ownerID, func(st *uiState) { st.Awaiting = args[0] })
			_ = h.tg.AnswerCallback(q.ID, inputHint(args[0]), false)
			return h.renderWizard(chatID, ownerID, msgID, true)
		}
	case "photo_clear":
		empty := ""
		h.sessions.Update(id, product.Patch{ReferenceImage: &empty}.Apply)
	case "reset":
		h.resetSession(chatID, ownerID)
	case "prompt":
		_ = h.tg.AnswerCallback(q.ID, "Sending the directive…", false)
		return h.sendPrompt(chatID, ownerID)
	case "generate":
		_ = h.tg.AnswerCallback(q.ID, "Generating…", false)
		return h.generate(ctx, chatID, ownerID)
	case "close":
		h.ui.Update(chatID, ownerID, func(st *uiState) {
			st.Awaiting = inputNone
			st.Menu = menuMain
		})
	}

	_ = h.tg.AnswerCallback(q.ID, "OK", false)
	return h.renderWizard(chatID, ownerID, msgID, true)
}

func (h *Handler) applyOption(chatID int64, userID int64, menuKey, optionKey string) {
	m, ok := findMenu(menuKey)
	if !ok {
		return
	}
	value, ok := catalog.Lookup(m.values(), optionKey)
	if !ok {
		return
	}
	h.sessions.Update(sessionID(chatID, userID), func(cfg product.Configuration) product.Configuration {
		return m.apply(cfg, value)
	})
	if !m.multi {
		h.ui.Update(chatID, userID, func(st *uiState) { st.Menu = menuMain })
	}
}

func toggle(cfg product.Configuration, what string) product.Configuration {
	var p product.Patch
	switch what {
	case "pack":
		v := !cfg.IsPack
		p.IsPack = &v
	case "model":
		v := !cfg.ModelEnabled
		p.ModelEnabled = &v
	case "liquid":
		v := !cfg.Effects.LiquidDripEnabled
		p.Effects = &product.EffectsPatch{LiquidDripEnabled: &v}
	case "powder":
		v := !cfg.Effects.PowderEnabled
		p.Effects = &product.EffectsPatch{PowderEnabled: &v}
	case "mascot":
		v := !cfg.Effects.MascotEnabled
		p.Effects = &product.EffectsPatch{MascotEnabled: &v}
	default:
		return cfg
	}
	return p.Apply(cfg)
}

func stepCreative(cfg product.Configuration, dir string) product.Configuration {
	level := cfg.CreativeLevel
	switch dir {
	case "+":
		level++
	case "-":
		level--
	}
	level = min(max(level, 1), 10)
	if level == cfg.CreativeLevel {
		return cfg
	}
	return product.Patch{CreativeLevel: &level}.Apply(cfg)
}

func (h *Handler) renderWizard(chatID int64, userID int64, messageID int, edit bool) error {
	sess := h.sessions.GetOrCreate(sessionID(chatID, userID))
	st := h.ui.Get(chatID, userID)
	if messageID == 0 {
		messageID = st.MessageID
	}

	text := wizardText(sess, st)
	kb := wizardKeyboard(userID, sess.Config, st)

	if edit && messageID != 0 {
		if err := h.tg.EditTextWithKeyboard(chatID, messageID, text, kb); err == nil {
			return nil
		}
	}

	msgID, err := h.tg.SendTextWithKeyboard(chatID, text, kb)
	if err != nil {
		return err
	}
	h.ui.Update(chatID, userID, func(st *uiState) { st.MessageID = msgID })
	return nil
}

func wizardText(sess session.Session, st uiState) string {
	cfg := sess.Config

	var b strings.Builder
	b.WriteString("📸 Product Blueprint Studio\n\n")
	b.WriteString("Name: " + orDash(cfg.Name) + "\n")
	b.WriteString("Category: " + cfg.Category + "\n")
	b.WriteString(fmt.Sprintf("Form: %s, %s\n", cfg.PhysicalForm, cfg.ContainerType))
	b.WriteString("Styles: " + orDash(strings.Join(cfg.Styles, ", ")) + "\n")
	b.WriteString("Branding: " + cfg.BrandPositioning + "\n")
	b.WriteString(fmt.Sprintf("Shot: %s, %s, %s, %s, %s\n", cfg.LightingStyle, cfg.CameraAngle, cfg.DepthOfField, cfg.AspectRatio, cfg.Resolution))
	b.WriteString(fmt.Sprintf("Creative level: %d/10\n", cfg.CreativeLevel))
	if cfg.IsPack {
		b.WriteString("Pack: " + orDash(cfg.PackSize) + "\n")
	}
	if cfg.ModelEnabled {
		b.WriteString("Model: " + orDash(cfg.ModelPersona) + "\n")
	}
	if effects := effectsSummary(cfg.Effects); effects != "" {
		b.WriteString("Effects: " + effects + "\n")
	}
	b.WriteString("Reference photo: " + yesNo(cfg.ReferenceImage != "") + "\n")
	b.WriteString(fmt.Sprintf("Variants: %d\n", brief.VariantCount(cfg)))
	if len(sess.Variants) > 0 {
		b.WriteString(fmt.Sprintf("Last batch: %d blueprints\n", len(sess.Variants)))
	}

	if intel, ok := catalog.IntelligenceFor(cfg.Category); ok && len(intel.SuggestedBackgrounds) > 0 {
		b.WriteString("\n💡 Try backgrounds: " + strings.Join(intel.SuggestedBackgrounds, ", ") + "\n")
	}

	if m, ok := findMenu(st.Menu); ok {
		b.WriteString("\nChoose " + strings.ToLower(m.title) + ":\n")
	}
	if st.Awaiting != inputNone {
		b.WriteString("\n✏️ " + inputHint(st.Awaiting) + "\n")
	}

	return strings.TrimSpace(b.String())
}

func wizardKeyboard(ownerID int64, cfg product.Configuration, st uiState) tgbotapi.InlineKeyboardMarkup {
	if m, ok := findMenu(st.Menu); ok {
		return optionKeyboard(ownerID, cfg, m)
	}
	return mainKeyboard(ownerID, cfg)
}

func mainKeyboard(ownerID int64, cfg product.Configuration) tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData
	row := tgbotapi.NewInlineKeyboardRow

	rows := [][]tgbotapi.InlineKeyboardButton{
		row(btn("✏️ Name", cb(ownerID, "ask", inputName)), btn("Category", cb(ownerID, "menu", "cat"))),
		row(btn("Form", cb(ownerID, "menu", "form")), btn("Container", cb(ownerID, "menu", "box"))),
		row(btn(fmt.Sprintf("Styles (%d)", len(cfg.Styles)), cb(ownerID, "menu", "style")), btn("Branding", cb(ownerID, "menu", "brand"))),
		row(btn("Lighting", cb(ownerID, "menu", "light")), btn("Camera", cb(ownerID, "menu", "cam"))),
		row(btn("Ratio", cb(ownerID, "menu", "ratio")), btn("Resolution", cb(ownerID, "menu", "res")), btn("Focus", cb(ownerID, "menu", "dof"))),
		row(btn("Pack: "+onOff(cfg.IsPack), cb(ownerID, "toggle", "pack")), btn("Pack size", cb(ownerID, "ask", inputPackSize))),
		row(btn("Model: "+onOff(cfg.ModelEnabled), cb(ownerID, "toggle", "model")), btn("Persona", cb(ownerID, "ask", inputPersona))),
		row(btn("Liquid: "+onOff(cfg.Effects.LiquidDripEnabled), cb(ownerID, "toggle", "liquid")), btn("Powder: "+onOff(cfg.Effects.PowderEnabled), cb(ownerID, "toggle", "powder"))),
		row(btn("Mascot: "+onOff(cfg.Effects.MascotEnabled), cb(ownerID, "toggle", "mascot")), btn("Mascot style", cb(ownerID, "menu", "mascot")), btn("Props", cb(ownerID, "ask", inputAccessories))),
		row(btn("➖", cb(ownerID, "creative", "-")), btn(fmt.Sprintf("Creative %d/10", cfg.CreativeLevel), cb(ownerID, "menu", menuMain)), btn("➕", cb(ownerID, "creative", "+"))),
	}
	if cfg.ReferenceImage != "" {
		rows = append(rows, row(btn("🗑 Remove photo", cb(ownerID, "photo_clear"))))
	}
	rows = append(rows,
		row(btn("📄 Prompt", cb(ownerID, "prompt")), btn("🎨 Generate", cb(ownerID, "generate"))),
		row(btn("Reset", cb(ownerID, "reset")), btn("Close", cb(ownerID, "close"))),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func optionKeyboard(ownerID int64, cfg product.Configuration, m optionMenu) tgbotapi.InlineKeyboardMarkup {
	selected := m.current(cfg)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, opt := range catalog.Options(m.values()) {
		label := opt.Name
		if slices.Contains(selected, opt.Name) {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, "set", m.key, opt.Key)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	back := "⬅ Back"
	if m.multi {
		back = "✅ Done"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(back, cb(ownerID, "menu", menuMain)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func inputHint(input string) string {
	switch input {
	case inputName:
		return "Send the product name."
	case inputPackSize:
		return "Send the pack size, e.g. Pack of 6."
	case inputPersona:
		return "Describe the model and what they do with the product."
	case inputAccessories:
		return "Send supporting props separated by commas."
	default:
		return "Send the value as a message."
	}
}

func effectsSummary(e product.Effects) string {
	var parts []string
	if e.LiquidDripEnabled {
		parts = append(parts, "liquid drip")
	}
	if e.PowderEnabled {
		parts = append(parts, "powder")
	}
	if e.MascotEnabled {
		parts = append(parts, e.MascotStyle+" mascot")
	}
	if len(e.Accessories) > 0 {
		parts = append(parts, "props: "+strings.Join(e.Accessories, ", "))
	}
	return strings.Join(parts, "; ")
}

func cb(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", callbackPrefix, ownerID, strings.Join(parts, ":"))
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not set)"
	}
	return s
}
