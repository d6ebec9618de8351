package roster

import (
	"testing"
	"time"

	"github.com/username/attendance-engine/internal/schedule"
)

func enrollment(name, label, code, clock, teacher string) Enrollment {
	return Enrollment{Name: name, ClassLabel: label, ClassCode: code, Time: clock, Level: "Básico", Teacher: teacher}
}

func exclusion(name, label, clock, teacher string) Exclusion {
	return Exclusion{
		Enrollment: Enrollment{Name: name, ClassLabel: label, Time: clock, Teacher: teacher},
		ExcludedOn: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestIsExcluded(t *testing.T) {
	ana := enrollment("Ana Silva", "Inglês 1A", "ING-1A", "09:30", "Maria Souza")

	tests := []struct {
		name string
		e    Enrollment
		x    Exclusion
		want bool
	}{
		{"full wildcard", ana, exclusion("Ana Silva", "", "", ""), true},
		{"name with accents and case", ana, exclusion("  ANA  SÍLVA", "", "", ""), true},
		{"different name", ana, exclusion("Ana Souza", "", "", ""), false},
		{"matching label", ana, exclusion("Ana Silva", "ingles 1a", "", ""), true},
		{"label matches code", ana, exclusion("Ana Silva", "ING-1A", "", ""), true},
		{"other class", ana, exclusion("Ana Silva", "Inglês 2B", "", ""), false},
		{"matching bare-digit time", ana, exclusion("Ana Silva", "Inglês 1A", "930", ""), true},
		{"different time", ana, exclusion("Ana Silva", "Inglês 1A", "14:00", ""), false},
		{"enrollment without time", enrollment("Ana Silva", "Inglês 1A", "", "", "Maria Souza"), exclusion("Ana Silva", "", "14:00", ""), true},
		{"matching teacher", ana, exclusion("Ana Silva", "", "", "maria souza"), true},
		{"different teacher", ana, exclusion("Ana Silva", "", "", "João Lima"), false},
		{"enrollment without teacher", enrollment("Ana Silva", "Inglês 1A", "", "09:30", ""), exclusion("Ana Silva", "", "", "João Lima"), true},
		{"blank enrollment name never matches", enrollment("", "Inglês 1A", "", "", ""), exclusion("", "", "", ""), false},
		{"unparseable time is not a wildcard", ana, exclusion("Ana Silva", "", "manhã", ""), false},
		{"unparseable times compared as text", enrollment("Ana Silva", "Inglês 1A", "", "Manhã", ""), exclusion("Ana Silva", "", "manha", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExcluded(tt.e, tt.x); got != tt.want {
				t.Errorf("IsExcluded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsExcluded_CodeOnExclusion(t *testing.T) {
	ana := enrollment("Ana Silva", "Inglês 1A", "ING-1A", "09:30", "")
	x := Exclusion{Enrollment: Enrollment{Name: "Ana Silva", ClassLabel: "Turma antiga", ClassCode: "ING-1A"}}

	if !IsExcluded(ana, x) {
		t.Errorf("IsExcluded() = false, want true when exclusion code matches")
	}
}

func TestActiveRoster(t *testing.T) {
	enrollments := []Enrollment{
		enrollment("Ana Silva", "Inglês 1A", "ING-1A", "09:30", "Maria Souza"),
		enrollment("Ana Silva", "Inglês 2B", "ING-2B", "14:00", "João Lima"),
		enrollment("Bruno Costa", "Inglês 1A", "ING-1A", "09:30", "Maria Souza"),
		enrollment("Carla Dias", "Inglês 2B", "ING-2B", "14:00", "João Lima"),
	}

	tests := []struct {
		name       string
		exclusions []Exclusion
		want       []string
	}{
		{
			name:       "no exclusions",
			exclusions: nil,
			want:       []string{"Ana Silva", "Ana Silva", "Bruno Costa", "Carla Dias"},
		},
		{
			name:       "wildcard removes every class of the student",
			exclusions: []Exclusion{exclusion("Ana Silva", "", "", "")},
			want:       []string{"Bruno Costa", "Carla Dias"},
		},
		{
			name:       "class-specific exclusion",
			exclusions: []Exclusion{exclusion("Ana Silva", "Inglês 2B", "", "")},
			want:       []string{"Ana Silva", "Bruno Costa", "Carla Dias"},
		},
		{
			name:       "unknown name removes nobody",
			exclusions: []Exclusion{exclusion("Daniel Reis", "", "", "")},
			want:       []string{"Ana Silva", "Ana Silva", "Bruno Costa", "Carla Dias"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActiveRoster(enrollments, tt.exclusions)
			if len(got) != len(tt.want) {
				t.Fatalf("ActiveRoster() = %d enrollments, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("ActiveRoster()[%d] = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestVacanciesAndOverflow(t *testing.T) {
	tests := []struct {
		name          string
		capacity      int
		occupancy     int
		wantVacancies int
		wantOverflow  int
	}{
		{"overfull", 10, 12, 0, 2},
		{"free seats", 10, 7, 3, 0},
		{"exactly full", 10, 10, 0, 0},
		{"unset capacity", 0, 4, 0, 4},
		{"empty unset", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Vacancies(tt.capacity, tt.occupancy)
			o := Overflow(tt.capacity, tt.occupancy)
			if v != tt.wantVacancies || o != tt.wantOverflow {
				t.Errorf("Vacancies/Overflow(%d, %d) = %d/%d, want %d/%d",
					tt.capacity, tt.occupancy, v, o, tt.wantVacancies, tt.wantOverflow)
			}
			if v*o != 0 {
				t.Errorf("vacancies and overflow both positive: %d, %d", v, o)
			}
		})
	}
}

func TestVacanciesTimesOverflowIsZero(t *testing.T) {
	for capacity := 0; capacity <= 20; capacity++ {
		for occupancy := 0; occupancy <= 20; occupancy++ {
			if Vacancies(capacity, occupancy)*Overflow(capacity, occupancy) != 0 {
				t.Fatalf("capacity %d occupancy %d reports both vacancies and overflow", capacity, occupancy)
			}
		}
	}
}

func TestOccupancyAndGroups(t *testing.T) {
	classes := []schedule.Class{
		{Code: "ING-1A", Label: "Inglês 1A", StartTime: "09:30", Teacher: "Maria Souza", Level: "Básico", Capacity: 2},
		{Code: "ING-2B", Label: "Inglês 2B", StartTime: "14:00", Teacher: "João Lima", Level: "Básico", Capacity: 5},
		{Code: "ESP-1", Label: "Espanhol 1", StartTime: "19:00", Teacher: "Paula Reis", Level: "Intermediário"},
	}
	active := []Enrollment{
		enrollment("Ana Silva", "ingles 1a", "", "930", "MARIA SOUZA"),
		enrollment("Bruno Costa", "Inglês 1A", "ING-1A", "09:30", "Maria Souza"),
		enrollment("Caio Melo", "Inglês 1A", "ING-1A", "09:30", "Maria Souza"),
		enrollment("Carla Dias", "Inglês 2B", "ING-2B", "14:00", "João Lima"),
		{Name: "Duda Alves", ClassLabel: "Espanhol 1", Time: "19:00", Level: "Intermediario", Teacher: "Paula Reis"},
	}

	if got := Occupancy(active, KeyForClass(classes[0])); got != 3 {
		t.Errorf("Occupancy(ING-1A) = %d, want 3", got)
	}

	groups := Groups(classes, active)
	if len(groups) != 3 {
		t.Fatalf("Groups() = %d, want 3", len(groups))
	}

	want := []struct{ occ, vac, over int }{{3, 0, 1}, {1, 4, 0}, {1, 0, 1}}
	for i, w := range want {
		g := groups[i]
		if g.Occupancy != w.occ || g.Vacancies != w.vac || g.Overflow != w.over {
			t.Errorf("groups[%d] = occ %d vac %d over %d, want %d %d %d",
				i, g.Occupancy, g.Vacancies, g.Overflow, w.occ, w.vac, w.over)
		}
	}

	totals := Summarize(groups)
	if totals.Vacancies != 4 || totals.Overflow != 2 {
		t.Errorf("Summarize() vacancies/overflow = %d/%d, want 4/2", totals.Vacancies, totals.Overflow)
	}
	if totals.Occupancy != 5 || totals.Capacity != 7 || totals.Groups != 3 {
		t.Errorf("Summarize() = %+v, want occupancy 5 capacity 7 groups 3", totals)
	}
}

func TestGroups_PartialEnrollmentFields(t *testing.T) {
	classes := []schedule.Class{
		{Code: "ING-1A", Label: "Inglês 1A", StartTime: "09:30", Teacher: "Maria Souza", Level: "Básico", Capacity: 2},
		{Code: "ING-2B", Label: "Inglês 2B", StartTime: "14:00", Teacher: "João Lima", Level: "Básico", Capacity: 5},
	}

	tests := []struct {
		name    string
		active  []Enrollment
		wantOcc []int
	}{
		{
			name: "code only and level-less",
			active: []Enrollment{
				{Name: "Ana Silva", ClassCode: "ING-1A", Time: "930", Level: "Básico"},
				{Name: "Bruno Costa", ClassLabel: "Inglês 1A"},
			},
			wantOcc: []int{2, 0},
		},
		{
			name: "conflicting time is not counted",
			active: []Enrollment{
				{Name: "Ana Silva", ClassCode: "ING-1A", Time: "14:00"},
			},
			wantOcc: []int{0, 0},
		},
		{
			name: "unparseable time is not counted",
			active: []Enrollment{
				{Name: "Ana Silva", ClassCode: "ING-1A", Time: "manhã"},
			},
			wantOcc: []int{0, 0},
		},
		{
			name: "no class fields is not counted",
			active: []Enrollment{
				{Name: "Ana Silva", Time: "09:30", Teacher: "Maria Souza"},
			},
			wantOcc: []int{0, 0},
		},
		{
			name: "counted once",
			active: []Enrollment{
				{Name: "Ana Silva", ClassLabel: "ING-2B", ClassCode: "Inglês 1A"},
			},
			wantOcc: []int{1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Groups(classes, tt.active)
			for i, want := range tt.wantOcc {
				if groups[i].Occupancy != want {
					t.Errorf("groups[%d].Occupancy = %d, want %d", i, groups[i].Occupancy, want)
				}
			}
		})
	}

	groups := Groups(classes, []Enrollment{
		{Name: "Ana Silva", ClassCode: "ING-1A", Time: "930", Level: "Básico"},
		{Name: "Bruno Costa", ClassLabel: "Inglês 1A"},
	})
	if g := groups[0]; g.Vacancies != 0 || g.Overflow != 0 {
		t.Errorf("ING-1A vacancies/overflow = %d/%d, want 0/0", g.Vacancies, g.Overflow)
	}
}

func TestBelongsTo(t *testing.T) {
	class := schedule.Class{Code: "ING-1A", Label: "Inglês 1A", StartTime: "09:30", Teacher: "Maria Souza", Level: "Básico"}

	tests := []struct {
		name string
		e    Enrollment
		want bool
	}{
		{"label", Enrollment{ClassLabel: "ingles 1a"}, true},
		{"code", Enrollment{ClassCode: "ing-1a"}, true},
		{"label holds the code", Enrollment{ClassLabel: "ING-1A"}, true},
		{"other class", Enrollment{ClassLabel: "Inglês 2B"}, false},
		{"no class fields", Enrollment{}, false},
		{"other level", Enrollment{ClassCode: "ING-1A", Level: "Avançado"}, false},
		{"other teacher", Enrollment{ClassCode: "ING-1A", Teacher: "João Lima"}, false},
		{"bare-digit time", Enrollment{ClassCode: "ING-1A", Time: "930"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BelongsTo(tt.e, class); got != tt.want {
				t.Errorf("BelongsTo(%+v) = %v, want %v", tt.e, got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	groups := []GroupStatus{
		{Class: schedule.Class{Code: "A", Level: "Básico", Teacher: "Maria Souza", StartTime: "09:30"}},
		{Class: schedule.Class{Code: "B", Level: "Básico", Teacher: "João Lima", StartTime: "14:00"}},
		{Class: schedule.Class{Code: "C", Level: "Avançado", Teacher: "Maria Souza", StartTime: "930"}},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter", Filter{}, []string{"A", "B", "C"}},
		{"by level", Filter{Level: "basico"}, []string{"A", "B"}},
		{"by teacher", Filter{Teacher: "MARIA SOUZA"}, []string{"A", "C"}},
		{"by time", Filter{Time: "09:30"}, []string{"A", "C"}},
		{"combined", Filter{Level: "Avançado", Time: "0930"}, []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(groups)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() = %d groups, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Class.Code != tt.want[i] {
					t.Errorf("Apply()[%d] = %s, want %s", i, got[i].Class.Code, tt.want[i])
				}
			}
		})
	}
}

func TestGroupKey_String(t *testing.T) {
	key := NewGroupKey("Inglês 1A", "930", "Básico", "Maria Souza")
	if got := key.String(); got != "ingles 1a|0930|basico|maria souza" {
		t.Errorf("String() = %q", got)
	}
}
