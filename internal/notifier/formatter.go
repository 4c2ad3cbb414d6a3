package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/opsxjacky/notion-ticker-sync/internal/recorder"
)

// FormatRunSummary formats a completed sync run into a Telegram message.
func FormatRunSummary(sum *recorder.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>持仓同步完成</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("持仓总数: %d\n", sum.Total))
	b.WriteString(fmt.Sprintf("已更新: %d\n", sum.Updated))
	if sum.Skipped > 0 {
		b.WriteString(fmt.Sprintf("已跳过: %d\n", sum.Skipped))
	}
	if sum.Failed > 0 {
		b.WriteString(fmt.Sprintf("⚠️ 失败: %d\n", sum.Failed))
	}
	if sum.TradesUpdated > 0 {
		b.WriteString(fmt.Sprintf("交易收益已更新: %d\n", sum.TradesUpdated))
	}
	b.WriteString(fmt.Sprintf("\n耗时: %.1fs", float64(sum.DurationMillis)/1000))
	return b.String()
}

// FormatRunError formats a failed sync run.
func FormatRunError(err error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>持仓同步失败</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(err.Error())
	return b.String()
}
