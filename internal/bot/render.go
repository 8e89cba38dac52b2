package bot

import (
	"fmt"
	"strings"

	"historybot/internal/content"
	"historybot/internal/session"
	"historybot/internal/telegram"
)

// Stage message texts. Hebrew, HTML parse mode.
const (
	historyHeader = "📅 <b>מה קרה היום בהיסטוריה?</b>"
	worldHeader   = "🌍 <b>רגע מהעולם - טבע ותרבות</b>"
	factHeader    = "💎 <b>עובדה היסטורית על יהלומים</b>"
	videoHeader   = "🎥 <b>סרטון לסיום</b>"

	dailyHeader = "☀️ <b>בוקר טוב! הנה הסבב היומי שלך</b>"

	closingText = "🌀 <b>זהו הסבב היומי שלך. ניפגש מחר!</b>\n💎 שלח /start מתי שתרצה סבב נוסף."

	unavailableText   = "❌ מצטער, לא הצלחתי לטעון תוכן כרגע. נסה שוב מאוחר יותר."
	cancelledText     = "🌀 הסבב בוטל. שלח /start כדי להתחיל מחדש."
	dailyDegradedText = "☀️ בוקר טוב! לא מצאתי היום תוכן חדש, ננסה שוב מחר."
)

// Button labels, keyed below by the trigger they fire.
const (
	worldButtonLabel = "📸 תראה לי משהו מעניין מהעולם"
	factButtonLabel  = "💎 תן לי עובדה נדירה על יהלומים"
	videoButtonLabel = "🎬 סיים לי עם סרטון קצר"
)

var buttonLabels = map[session.Trigger]string{
	session.TriggerWorld:   worldButtonLabel,
	session.TriggerDiamond: factButtonLabel,
	session.TriggerVideo:   videoButtonLabel,
}

// Interstitial texts shown while the next stage loads.
var loadingTexts = map[session.Trigger]string{
	session.TriggerWorld:   "⏳ מחפש משהו מעניין מהעולם...",
	session.TriggerDiamond: "⏳ שולף עובדה נדירה...",
	session.TriggerVideo:   "⏳ מחפש סרטון מתאים...",
}

func welcomeText(firstName string) string {
	greeting := "שלום"
	if firstName != "" {
		greeting = "שלום " + firstName
	}
	return fmt.Sprintf("👋 <b>%s!</b>\nאני אביא לך סבב יומי של היסטוריה, עולם, יהלומים וסרטון.\n\n⏳ טוען את האירוע ההיסטורי של היום...", greeting)
}

// Render turns a machine step into message text plus the next-stage
// keyboard.
func Render(step *session.Step) (string, *telegram.InlineKeyboard) {
	var text string
	switch {
	case step.Cancelled:
		return cancelledText, nil
	case step.Unavailable:
		return unavailableText, nil
	case step.History != nil:
		text = fmt.Sprintf("%s\n\n%s", historyHeader, itemBody(step.History))
	case step.World != nil:
		text = fmt.Sprintf("%s\n\n%s", worldHeader, itemBody(step.World))
	case step.Fact != nil:
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n🔸 <b>%s</b>\n\n%s\n\n📚 <b>מקור:</b> %s", factHeader, step.Fact.Title, step.Fact.Content, step.Fact.Source)
		if step.Fact.Link != "" {
			fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">למידע נוסף</a>", step.Fact.Link)
		}
		text = b.String()
	case step.Video != nil:
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n🔸 <b>%s</b>", videoHeader, step.Video.Title)
		if step.Video.Description != "" {
			fmt.Fprintf(&b, "\n\n%s", step.Video.Description)
		}
		fmt.Fprintf(&b, "\n\n🎬 <a href=\"%s\">צפה בסרטון</a>\n\n%s", step.Video.URL, closingText)
		text = b.String()
	default:
		return "", nil
	}

	if label, ok := buttonLabels[step.Next]; ok {
		return text, telegram.SingleButton(label, string(step.Next))
	}
	return text, nil
}

func itemBody(item *content.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔸 <b>%s</b>\n\n%s", item.Title, item.Body)
	if item.Link != "" {
		fmt.Fprintf(&b, "\n\n🔗 <a href=\"%s\">קרא עוד במקור</a>", item.Link)
	}
	return b.String()
}
