// Package digest formats outbound messages as Telegram-flavored HTML.
// Pure functions; no transport dependency. The calling layer decides where
// the text goes.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/mariabico/offer-curator/internal/curator"
	"github.com/mariabico/offer-curator/internal/db"
	"github.com/mariabico/offer-curator/internal/types"
)

const (
	digestNameLen  = 50
	productNameLen = 80
)

// truncate cuts a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FormatProduct renders a single-product message.
func FormatProduct(p types.ScoredOffer) string {
	keyword := strings.ReplaceAll(p.Keyword, " ", "")
	return fmt.Sprintf(
		"🛒 <b>%s</b>\n\n"+
			"💰 R$ %.2f | 🔻 %.0f%% OFF\n"+
			"💸 Comissão: R$ %.2f (%.1f%%)\n\n"+
			"🔗 %s\n\n"+
			"#%s #shopee #oferta",
		truncate(p.Name, productNameLen),
		p.PriceMin, p.DiscountPct,
		p.Commission, p.CommissionRate*100,
		p.ShortLink,
		keyword,
	)
}

// FormatDigest renders the consolidated top-N message for one run.
func FormatDigest(result *curator.Result, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🤖 <b>Curadoria de Ofertas</b>\n📅 %s às %s\n\n🏆 Top %d Produtos Selecionados:\n",
		now.Format("02/01/2006"), now.Format("15:04"), len(result.Products))

	divider := strings.Repeat("━", 40)
	for i, p := range result.Products {
		fmt.Fprintf(&b, "\n%s\n%d️⃣ <b>%s</b>\n💰 R$ %.2f | 🔻 %.0f%% | 💸 R$ %.2f\n🔗 %s",
			divider, i+1,
			truncate(p.Name, digestNameLen),
			p.PriceMin, p.DiscountPct, p.Commission,
			p.ShortLink)
	}

	fmt.Fprintf(&b, "\n\n📊 Avaliados: %d | Aprovados: %d", result.Fetched, result.Approved)
	return b.String()
}

// FormatStatus renders the operator status message: last run, next run and
// aggregate store counters.
func FormatStatus(lastRun *db.Run, stats *db.Stats, nextRun time.Time) string {
	var b strings.Builder

	b.WriteString("📊 <b>Status do Curador</b>\n\n")

	b.WriteString("📦 <b>Última Curadoria</b>\n")
	if lastRun == nil {
		b.WriteString("Nenhuma execução ainda\n")
	} else {
		fmt.Fprintf(&b, "%s (%s)\n", lastRun.StartedAt.Format("02/01/2006 15:04"), lastRun.RunType)
		fmt.Fprintf(&b, "• Avaliados: %d produtos\n", lastRun.ItemsFetched)
		fmt.Fprintf(&b, "• Aprovados: %d produtos\n", lastRun.ItemsApproved)
		fmt.Fprintf(&b, "• Enviados: %d produtos\n", lastRun.ItemsSent)
		if lastRun.Success {
			b.WriteString("• Resultado: ✅ sucesso\n")
		} else {
			summary := ""
			if lastRun.ErrorSummary != nil {
				summary = *lastRun.ErrorSummary
			}
			fmt.Fprintf(&b, "• Resultado: ⚠️ falha (%s)\n", summary)
		}
	}

	b.WriteString("\n⏭️ <b>Próxima Execução</b>\n")
	if nextRun.IsZero() {
		b.WriteString("• Sem agendamento ativo\n")
	} else {
		fmt.Fprintf(&b, "• Agendada para: %s\n", nextRun.Format("02/01/2006 15:04"))
	}

	b.WriteString("\n🗄️ <b>Banco de Dados</b>\n")
	if stats != nil {
		fmt.Fprintf(&b, "• Produtos únicos: %d\n", stats.UniqueProducts)
		fmt.Fprintf(&b, "• Links gerados: %d\n", stats.TotalLinks)
		fmt.Fprintf(&b, "• Envios realizados: %d\n", stats.TotalMessages)
		fmt.Fprintf(&b, "• Execuções: %d\n", stats.TotalRuns)
	} else {
		b.WriteString("• Sem estatísticas disponíveis\n")
	}

	return b.String()
}
