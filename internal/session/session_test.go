package session

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewGameSessionParsesActivitiesAndCalibration(t *testing.T) {
	raw := sessionRaw("student-1",
		[]any{minimalActivityRaw("DJCrocos", 10, 20)},
		calibrationListRaw(),
	)
	gameSession, err := NewGameSession(raw)
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	if gameSession.StudentID != "student-1" {
		t.Fatalf("unexpected student id: %q", gameSession.StudentID)
	}
	if gameSession.Resolution.Width != 1920 {
		t.Fatalf("unexpected resolution: %+v", gameSession.Resolution)
	}
	if gameSession.ScreenCalibration == nil {
		t.Fatalf("expected a screen calibration")
	}
	if len(gameSession.ScreenCalibration.Points) != 2 {
		t.Fatalf("expected 2 calibration points, got %d", len(gameSession.ScreenCalibration.Points))
	}
	activity := gameSession.Activity(GameDJCrocos)
	if activity == nil {
		t.Fatalf("expected a DJCrocos activity")
	}
	if len(activity.Challenges) != 1 {
		t.Fatalf("expected 1 challenge, got %d", len(activity.Challenges))
	}
}

func TestNewGameSessionRequiresCalibrationOrActivities(t *testing.T) {
	if _, err := NewGameSession(sessionRaw("student-1", nil, nil)); !errors.Is(err, ErrScreenCalibrationOrActivitiesEmpty) {
		t.Fatalf("expected ErrScreenCalibrationOrActivitiesEmpty, got %v", err)
	}
	if _, err := NewGameSession(sessionRaw("student-1", []any{}, []any{})); !errors.Is(err, ErrScreenCalibrationOrActivitiesEmpty) {
		t.Fatalf("expected ErrScreenCalibrationOrActivitiesEmpty, got %v", err)
	}
}

func TestNewGameSessionNormalizesSingleActivity(t *testing.T) {
	raw := sessionRaw("student-1", nil, nil)
	raw["activities"] = minimalActivityRaw("CrocoSpot", 5, 15)
	gameSession, err := NewGameSession(raw)
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	if gameSession.Activity(GameCrocosSpot) == nil {
		t.Fatalf("expected a CrocoSpot activity")
	}
}

func TestNewGameSessionDuplicateActivityLastWins(t *testing.T) {
	first := minimalActivityRaw("DJCrocos", 10, 20)
	second := minimalActivityRaw("DJCrocos", 30, 40)
	gameSession, err := NewGameSession(sessionRaw("student-1", []any{first, second}, nil))
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	if len(gameSession.Activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(gameSession.Activities))
	}
	if gameSession.Activity(GameDJCrocos).StartTS != 30 {
		t.Fatalf("expected the later activity to win, got start %v", gameSession.Activity(GameDJCrocos).StartTS)
	}
}

func TestNewGameSessionRejectsWrongFieldKind(t *testing.T) {
	raw := sessionRaw("student-1", []any{minimalActivityRaw("DJCrocos", 10, 20)}, nil)
	raw["soft_version"] = "three"
	_, err := NewGameSession(raw)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if typeErr.Field != "soft_version" {
		t.Fatalf("unexpected field in error: %q", typeErr.Field)
	}
}

func TestFromRawDecodesJSONNumbers(t *testing.T) {
	payload := map[string]any{
		"student_id":              "student-1",
		"device_name":             "tablet-01",
		"device_type":             "Handheld",
		"device_model":            "SM-T510",
		"device_uid":              "b2c1f3",
		"soft_version":            3,
		"soft_configuration_name": "default",
		"resolution":              "800 x 600 @ 75Hz",
		"activities":              []any{minimalActivityRaw("CrocosVocabulo", 2, 9)},
	}
	content, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	gameSession, err := FromRaw(content)
	if err != nil {
		t.Fatalf("failed to parse session: %v", err)
	}
	if gameSession.SoftVersion != 3 {
		t.Fatalf("unexpected soft version: %d", gameSession.SoftVersion)
	}
	activity := gameSession.Activity(GameCrocosVocabulo)
	if activity == nil {
		t.Fatalf("expected a CrocosVocabulo activity")
	}
	if activity.StartTS != 2 || activity.EndTS != 9 {
		t.Fatalf("unexpected activity window: [%v, %v]", activity.StartTS, activity.EndTS)
	}
}

func TestMergeRejectsStudentMismatch(t *testing.T) {
	left, err := NewGameSession(sessionRaw("student-1", []any{minimalActivityRaw("DJCrocos", 10, 20)}, nil))
	if err != nil {
		t.Fatalf("failed to build left session: %v", err)
	}
	right, err := NewGameSession(sessionRaw("student-2", []any{minimalActivityRaw("CrocoSpot", 30, 40)}, nil))
	if err != nil {
		t.Fatalf("failed to build right session: %v", err)
	}
	if _, err := left.Merge(right); !errors.Is(err, ErrStudentIDMismatch) {
		t.Fatalf("expected ErrStudentIDMismatch, got %v", err)
	}
}

func TestMergeCombinesActivitiesAndCalibration(t *testing.T) {
	left, err := NewGameSession(sessionRaw("student-1",
		[]any{minimalActivityRaw("DJCrocos", 10, 20)},
		calibrationListRaw(),
	))
	if err != nil {
		t.Fatalf("failed to build left session: %v", err)
	}
	right, err := NewGameSession(sessionRaw("student-1",
		[]any{minimalActivityRaw("DJCrocos", 30, 40), minimalActivityRaw("CrocoSpot", 50, 60)},
		nil,
	))
	if err != nil {
		t.Fatalf("failed to build right session: %v", err)
	}

	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}
	if merged.ScreenCalibration == nil || !merged.ScreenCalibration.Equal(left.ScreenCalibration) {
		t.Fatalf("expected left calibration to be kept")
	}
	if len(merged.Activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(merged.Activities))
	}
	// Right operand wins on key collision.
	if merged.Activity(GameDJCrocos).StartTS != 30 {
		t.Fatalf("expected right DJCrocos activity, got start %v", merged.Activity(GameDJCrocos).StartTS)
	}
	if left.Activity(GameDJCrocos).StartTS != 10 {
		t.Fatalf("merge must not modify its operands")
	}
}

func TestMergeFallsBackToRightCalibration(t *testing.T) {
	left, err := NewGameSession(sessionRaw("student-1", []any{minimalActivityRaw("DJCrocos", 10, 20)}, nil))
	if err != nil {
		t.Fatalf("failed to build left session: %v", err)
	}
	right, err := NewGameSession(sessionRaw("student-1", nil, calibrationListRaw()))
	if err != nil {
		t.Fatalf("failed to build right session: %v", err)
	}
	merged, err := left.Merge(right)
	if err != nil {
		t.Fatalf("failed to merge: %v", err)
	}
	if merged.ScreenCalibration == nil {
		t.Fatalf("expected right calibration to fill the gap")
	}
}

func TestMergeFoldMatchesSequentialMerges(t *testing.T) {
	a, err := NewGameSession(sessionRaw("student-1", []any{minimalActivityRaw("DJCrocos", 10, 20)}, calibrationListRaw()))
	if err != nil {
		t.Fatalf("failed to build session a: %v", err)
	}
	b, err := NewGameSession(sessionRaw("student-1", []any{minimalActivityRaw("CrocoSpot", 30, 40)}, nil))
	if err != nil {
		t.Fatalf("failed to build session b: %v", err)
	}
	c, err := NewGameSession(sessionRaw("student-1", []any{minimalActivityRaw("CrocosMaze", 50, 60)}, nil))
	if err != nil {
		t.Fatalf("failed to build session c: %v", err)
	}

	ab, err := a.Merge(b)
	if err != nil {
		t.Fatalf("failed to merge a+b: %v", err)
	}
	abc, err := ab.Merge(c)
	if err != nil {
		t.Fatalf("failed to merge (a+b)+c: %v", err)
	}
	bc, err := b.Merge(c)
	if err != nil {
		t.Fatalf("failed to merge b+c: %v", err)
	}
	// b and c carry no calibration, so grouping does not matter here.
	abc2, err := a.Merge(bc)
	if err != nil {
		t.Fatalf("failed to merge a+(b+c): %v", err)
	}
	if !abc.Equal(abc2) {
		t.Fatalf("expected both merge orders to agree")
	}
}

func TestSortedActivitiesOrder(t *testing.T) {
	gameSession, err := NewGameSession(sessionRaw("student-1", []any{
		minimalActivityRaw("CrocoSpot", 50, 60),
		minimalActivityRaw("DJCrocos", 10, 20),
		minimalActivityRaw("CrocosMaze", 30, 40),
	}, nil))
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	sorted := gameSession.SortedActivities()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 activities, got %d", len(sorted))
	}
	if sorted[0].GameName != GameDJCrocos || sorted[1].GameName != GameCrocosMaze || sorted[2].GameName != GameCrocosSpot {
		t.Fatalf("unexpected activity order: %v, %v, %v", sorted[0].GameName, sorted[1].GameName, sorted[2].GameName)
	}
}
