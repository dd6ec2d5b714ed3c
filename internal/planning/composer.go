package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
)

// Conversation roles as stored by the chat endpoint.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ConversationMessage is one turn of the onboarding chat transcript.
type ConversationMessage struct {
	Role    string `json:"role" validate:"required,oneof=user model"`
	Content string `json:"content" validate:"required"`
}

// ChatSystemPrompt returns the system instruction for the onboarding chat.
func ChatSystemPrompt() string { return onboardingChatSystemPrompt }

// RoadmapSystemInstruction returns the system instruction for the initial
// roadmap extraction call.
func RoadmapSystemInstruction() string { return roadmapSystemInstruction }

// ComposeRoadmapPrompt renders the full user prompt for the initial roadmap
// generation: today's date, a hard-schedule warning block and the onboarding
// transcript, in that order.
func ComposeRoadmapPrompt(messages []ConversationMessage, hardEvents []*entities.Event, today time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("BỐI CẢNH THỜI GIAN: Hôm nay là ngày %s (định dạng ISO: %s).\n",
		today.Format("02/01/2006"), today.Format("2006-01-02")))
	sb.WriteString("Mọi ngày tháng trong kế hoạch phải tính từ mốc này trở đi.\n\n")

	sb.WriteString(composeHardEventsBlock(hardEvents))
	sb.WriteString("\n\nDưới đây là toàn bộ đoạn hội thoại Onboarding:\n\n")
	sb.WriteString(composeTranscript(messages))

	return sb.String()
}

// ReplanContext carries everything the re-plan prompt needs about the user's
// recent history.
type ReplanContext struct {
	GoalTitle       string
	GoalDescription string
	GoalDeadline    *time.Time
	CompletedTitles []string
	PendingTitles   []string
	AverageEnergy   float64
	EnergyNotes     []string // chronological "YYYY-MM-DD: level/5 (mood) | notes" lines
	HardEvents      []*entities.Event
	Today           time.Time
}

// ComposeReplanPrompt renders the prompt that asks the model to rebuild the
// pending portion of a roadmap around completion history and energy telemetry.
func ComposeReplanPrompt(rc ReplanContext) string {
	var sb strings.Builder

	sb.WriteString("Bạn là AI Life Coach. Hãy TÁI CẤU TRÚC lộ trình cho người dùng dựa trên dữ liệu thực tế dưới đây.\n\n")

	sb.WriteString(fmt.Sprintf("MỤC TIÊU: %s\n", rc.GoalTitle))
	if rc.GoalDescription != "" {
		sb.WriteString(fmt.Sprintf("MÔ TẢ: %s\n", rc.GoalDescription))
	}
	if rc.GoalDeadline != nil {
		sb.WriteString(fmt.Sprintf("NGÀY HẠN CHÓT: %s\n", rc.GoalDeadline.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("HÔM NAY: %s\n\n", rc.Today.Format("2006-01-02")))

	sb.WriteString(fmt.Sprintf("CÁC TASK ĐÃ HOÀN THÀNH: %d task (giữ nguyên, KHÔNG lặp lại):\n", len(rc.CompletedTitles)))
	sb.WriteString(composeTitleList(rc.CompletedTitles, "(chưa hoàn thành task nào)"))

	sb.WriteString(fmt.Sprintf("\nCÁC TASK CÒN DANG DỞ: %d task (sẽ bị thay thế bằng kế hoạch mới của bạn):\n", len(rc.PendingTitles)))
	sb.WriteString(composeTitleList(rc.PendingTitles, "(không còn task dang dở)"))

	sb.WriteString(fmt.Sprintf("\nNĂNG LƯỢNG TRUNG BÌNH 7 NGÀY QUA: %.1f/5\n", rc.AverageEnergy))
	if len(rc.EnergyNotes) > 0 {
		sb.WriteString("NHẬT KÝ NĂNG LƯỢNG (cũ đến mới):\n")
		for _, n := range rc.EnergyNotes {
			sb.WriteString("- " + n + "\n")
		}
	}
	sb.WriteString("\nCHỈ THỊ CƯỜNG ĐỘ: " + IntensityDirective(rc.AverageEnergy) + "\n\n")

	sb.WriteString(composeHardEventsBlock(rc.HardEvents))

	sb.WriteString("\n\nYÊU CẦU ĐẦU RA: Chỉ trả về Object JSON thuần túy (không markdown, không ```" + `json) theo cấu trúc:
{
  "tasks": [
    {
      "date": "YYYY-MM-DD",
      "title": "Tên task ngắn gọn",
      "description": "Bắt đầu: HH:MM | Thời lượng: X giờ/phút\nChi tiết: Cách làm (1-2 câu)",
      "energy_required": 1-5
    }
  ],
  "coach_note": "Một lời nhắn ngắn gọn, ấm áp giải thích vì sao lộ trình được điều chỉnh như vậy."
}
QUY TẮC: bắt đầu từ ngày mai trở đi, KHÔNG quá 3 task/ngày, xen kẽ ngày nặng và ngày nhẹ.`)

	return sb.String()
}

// Energy band thresholds over the 7-day average.
const (
	lowEnergyCeiling = 2.5
	highEnergyFloor  = 3.5
)

// IntensityDirective maps a 7-day average energy onto the re-plan intensity
// instruction. Below 2.5 is low, above 3.5 is high, the rest is medium.
func IntensityDirective(avg float64) string {
	switch {
	case avg < lowEnergyCeiling:
		return replanDirectiveLow
	case avg > highEnergyFloor:
		return replanDirectiveHigh
	default:
		return replanDirectiveMedium
	}
}

func composeHardEventsBlock(events []*entities.Event) string {
	if len(events) == 0 {
		return noHardEventsContext
	}
	var sb strings.Builder
	sb.WriteString(hardEventsWarningHeader + "\n")
	for i, ev := range events {
		sb.WriteString(fmt.Sprintf("%d. Ngày %s: %s", i+1, ev.DateString(), ev.Title))
		if ev.Description != nil && *ev.Description != "" {
			sb.WriteString(" (" + *ev.Description + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(hardEventsWarningFooter)
	return sb.String()
}

func composeTranscript(messages []ConversationMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "User"
		if m.Role == RoleModel {
			speaker = "AI Coach"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return strings.Join(lines, "\n\n")
}

func composeTitleList(titles []string, empty string) string {
	if len(titles) == 0 {
		return empty + "\n"
	}
	var sb strings.Builder
	for _, t := range titles {
		sb.WriteString("- " + t + "\n")
	}
	return sb.String()
}
