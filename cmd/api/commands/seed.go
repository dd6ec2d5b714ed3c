package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
)

const (
	demoEmail    = "demo@lifecoach.vn"
	demoPassword = "demo1234"
	demoTimezone = "Asia/Ho_Chi_Minh"
)

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
		Long:  "Create a demo user with a sample goal, tasks, calendar events and energy check-ins",
		Run: func(cmd *cobra.Command, args []string) {
			runSeed()
		},
	}
}

func runSeed() {
	db := openDatabase()
	defer db.Close()

	location, err := time.LoadLocation(demoTimezone)
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}
	now := time.Now().In(location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, location)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	tx, err := db.DB.Beginx()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	userID := uuid.New()
	err = tx.QueryRow(`
		INSERT INTO users (id, email, password_hash, display_name, timezone, auto_replan, is_active)
		VALUES ($1, $2, $3, 'Người dùng demo', $4, true, true)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		userID, demoEmail, string(hashedPassword), demoTimezone,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	goalID := uuid.New()
	_, err = tx.Exec(`
		INSERT INTO goals (id, user_id, title, description, type, deadline)
		VALUES ($1, $2, 'Đạt IELTS 6.5 trong 3 tháng', 'Tập trung Listening và Writing, mỗi ngày 1-2 giờ', 'learning', $3)`,
		goalID, userID, today.AddDate(0, 3, 0),
	)
	if err != nil {
		log.Fatalf("Failed to seed goal: %v", err)
	}

	tasks := []struct {
		title     string
		start     string
		duration  string
		detail    string
		priority  int
		energy    int
		dayOffset int
	}{
		{"Làm bài Listening Cam 18 Test 1", "19:00", "45 phút", "Nghe 2 lần, lần 2 chép lại từ khóa còn thiếu", 1, 3, 0},
		{"Viết Writing Task 2 về chủ đề công nghệ", "20:00", "1 giờ", "Lập dàn ý 10 phút rồi viết trọn 250 từ không tra từ điển", 2, 4, 0},
		{"Ôn 30 từ vựng Academic band 6+", "07:00", "30 phút", "Dùng flashcard, tự đặt 1 câu cho mỗi từ mới", 1, 2, 1},
		{"Luyện Speaking Part 2 với đề tả người", "19:30", "30 phút", "Ghi âm 2 lượt nói, nghe lại và sửa phát âm", 2, 3, 1},
		{"Chữa bài Writing đã viết hôm qua", "20:00", "45 phút", "Đối chiếu bài mẫu band 7, gạch chân lỗi ngữ pháp lặp lại", 1, 3, 2},
	}
	for _, t := range tasks {
		description := entities.ComposeTaskDescription(t.start, t.duration, t.detail)
		_, err = tx.Exec(`
			INSERT INTO tasks (id, user_id, goal_id, content, priority, energy_required, status, due_date)
			VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7)`,
			uuid.New(), userID, goalID,
			entities.ComposeTaskContent(t.title, description),
			t.priority, t.energy, today.AddDate(0, 0, t.dayOffset),
		)
		if err != nil {
			log.Fatalf("Failed to seed task: %v", err)
		}
	}

	events := []struct {
		title string
		date  time.Time
		hard  bool
	}{
		{"Thi thử IELTS tại trung tâm", today.AddDate(0, 0, 14), true},
		{"Họp nhóm đồ án tốt nghiệp", today.AddDate(0, 0, 3), false},
	}
	for _, e := range events {
		_, err = tx.Exec(`
			INSERT INTO events (id, user_id, title, date, is_hard_deadline)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), userID, e.title, e.date, e.hard,
		)
		if err != nil {
			log.Fatalf("Failed to seed event: %v", err)
		}
	}

	logs := []struct {
		dayOffset int
		energy    int
		mood      string
	}{
		{-2, 4, "hứng khởi"},
		{-1, 3, "bình thường"},
		{0, 2, "hơi mệt"},
	}
	for _, l := range logs {
		day := today.AddDate(0, 0, l.dayOffset)
		_, err = tx.Exec(`
			INSERT INTO daily_logs (id, user_id, date, energy_level, mood, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, date) DO UPDATE SET energy_level = EXCLUDED.energy_level, mood = EXCLUDED.mood`,
			uuid.New(), userID, day, l.energy, l.mood,
			fmt.Sprintf("[08:00] morning: %d/5", l.energy),
		)
		if err != nil {
			log.Fatalf("Failed to seed daily log: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed data: %v", err)
	}

	fmt.Println("Demo data loaded:")
	fmt.Printf("  Email:    %s\n", demoEmail)
	fmt.Printf("  Password: %s\n", demoPassword)
	fmt.Printf("  Goal:     1, Tasks: %d, Events: %d, Check-ins: %d\n", len(tasks), len(events), len(logs))
}
