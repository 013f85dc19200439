// Package export renders a completed plan as downloadable artifacts:
// a multi-sheet workbook for production use and a minimal markdown
// script document.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"viralflow/internal/domain"
)

const (
	sheetScript     = "脚本 Script"
	sheetShots      = "分镜表 Shot List"
	sheetOperations = "运营 Operations"
)

// Workbook renders the plan as an xlsx workbook with three sheets:
// the script, the shot list, and the operations guide as
// category-item-content rows.
func Workbook(plan domain.VideoPlan, estimatedSeconds int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetScript); err != nil {
		return nil, fmt.Errorf("rename script sheet: %w", err)
	}
	if err := writeScriptSheet(f, plan, estimatedSeconds); err != nil {
		return nil, err
	}
	if err := writeShotSheet(f, plan); err != nil {
		return nil, err
	}
	if err := writeOperationsSheet(f, plan); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeScriptSheet(f *excelize.File, plan domain.VideoPlan, estimatedSeconds int) error {
	rows := [][]any{
		{"模块 (Section)", "内容 (Content)"},
		{"标题 (Title)", plan.Script.Title},
		{"基调 (Tone)", plan.Script.Tone},
		{"预估时长 (Est. Duration)", fmt.Sprintf("~%d 秒", estimatedSeconds)},
		{"Hook (黄金3秒)", plan.Script.Hook},
		{"正文 (Body)", plan.Script.Body},
		{"CTA (行动号召)", plan.Script.CTA},
	}
	if err := writeRows(f, sheetScript, rows); err != nil {
		return err
	}
	return setWidths(f, sheetScript, 20, 80)
}

func writeShotSheet(f *excelize.File, plan domain.VideoPlan) error {
	if _, err := f.NewSheet(sheetShots); err != nil {
		return fmt.Errorf("create shot sheet: %w", err)
	}

	rows := [][]any{
		{"序号 (#)", "类型 (Type)", "画面描述 (Description)", "音效/配乐 (Audio Cue)", "时长 (Duration)", "B-Roll"},
	}
	for i, shot := range plan.ShotList {
		broll := "否 (No)"
		if shot.IsBroll {
			broll = "是 (Yes)"
		}
		rows = append(rows, []any{i + 1, shot.Type, shot.Description, shot.AudioCue, shot.Duration, broll})
	}
	if err := writeRows(f, sheetShots, rows); err != nil {
		return err
	}
	return setWidths(f, sheetShots, 8, 15, 60, 30, 12, 10)
}

func writeOperationsSheet(f *excelize.File, plan domain.VideoPlan) error {
	if _, err := f.NewSheet(sheetOperations); err != nil {
		return fmt.Errorf("create operations sheet: %w", err)
	}

	rows := [][]any{
		{"分类 (Category)", "项目 (Item)", "内容 (Content)"},
		{"关注路径 (Path)", "第1秒: 视觉吸引 (1s Visual)", orDash(plan.DataStrategy.VisualAttraction1s)},
		{"关注路径 (Path)", "第3秒: 价值钩子 (3s Hook)", orDash(plan.DataStrategy.ValueHook3s)},
		{"关注路径 (Path)", "第10秒: 情绪触发 (10s Emotion)", orDash(plan.DataStrategy.EmotionalTrigger10s)},
		{"关注路径 (Path)", "结尾: 互动设计 (Interaction)", orDash(plan.DataStrategy.InteractionDesignEnd)},
		{"发布 (Publishing)", "标题文案 (Caption)", plan.Publishing.Caption},
		{"发布 (Publishing)", "标签 (Hashtags)", strings.Join(plan.Publishing.Hashtags, " ")},
		{"发布 (Publishing)", "BGM建议", plan.Publishing.SuggestedMusic},
		{"发布 (Publishing)", "封面创意", plan.Publishing.ThumbnailIdea},
		{"剪辑 (Editing)", "节奏 (Pacing)", plan.Editing.Pacing},
		{"剪辑 (Editing)", "视觉风格 (Visuals)", plan.Editing.VisualStyle},
		{"剪辑 (Editing)", "音效 (Sound)", plan.Editing.SoundDesign},
		{"剪辑 (Editing)", "转场 (Transitions)", plan.Editing.Transitions},
		{"互动 (Interaction)", "置顶评论", plan.Interaction.PinnedComment},
		{"互动 (Interaction)", "引导提问", plan.Interaction.EngagementQuestion},
		{"互动 (Interaction)", "负评应对", plan.Interaction.NegativeFeedbackHandling},
	}
	if err := writeRows(f, sheetOperations, rows); err != nil {
		return err
	}
	return setWidths(f, sheetOperations, 20, 25, 80)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths ...float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", sheet, col, err)
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// WorkbookFilename derives a download filename from the plan title,
// replacing filesystem-unsafe characters and capping the title at 30
// characters.
func WorkbookFilename(title string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)

	runes := []rune(sanitized)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	return string(runes) + "_plan.xlsx"
}

// Markdown renders the minimal script document: the title as a
// heading followed by the body.
func Markdown(plan domain.VideoPlan) string {
	return strings.TrimSpace(fmt.Sprintf("# %s\n\n%s", plan.Script.Title, plan.Script.Body))
}
