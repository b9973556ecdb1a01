package scrum

import (
	"sort"
	"time"

	"github.com/gumruyanzh/xavier/internal/idgen"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

var priorityRank = map[string]int{
	model.PriorityCritical: 0, model.PriorityHigh: 1, model.PriorityMedium: 2, model.PriorityLow: 3,
}

// PlanSprint selects Backlog stories in priority order, greedily
// filling up to velocityTarget (0 uses the manager's configured
// default), and reserves them by transitioning to Ready. Only estimated
// stories are eligible; bugs are not selected.
func (m *Manager) PlanSprint(name, goal string, durationDays int, velocityTarget int) (model.Sprint, error) {
	if name == "" {
		return model.Sprint{}, xerrors.Validation("sprint: name is required")
	}
	if durationDays <= 0 {
		durationDays = 14
	}
	target := velocityTarget
	if target <= 0 {
		target = m.velocityTarget
	}
	if target <= 0 {
		target = 20
	}

	candidates := eligibleBacklogStories(m)
	sort.Slice(candidates, func(i, j int) bool {
		return priorityRank[candidates[i].Priority] < priorityRank[candidates[j].Priority]
	})

	var committed []model.CommittedItem
	total := 0
	for _, st := range candidates {
		if total+st.StoryPoints > target {
			continue
		}
		total += st.StoryPoints
		committed = append(committed, model.CommittedItem{Kind: "story", ID: st.ID})
	}

	id, err := idgen.Generate(idgen.Sprint, m.store.Exists)
	if err != nil {
		return model.Sprint{}, xerrors.Wrap(xerrors.KindIO, err, "scrum: generate sprint id")
	}
	sp := model.Sprint{
		ID: id, Name: name, Goal: goal, DurationDays: durationDays,
		Status: model.SprintPlanned, CommittedItems: committed, VelocityTarget: target,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.PutSprint(sp); err != nil {
		return model.Sprint{}, err
	}

	for _, item := range committed {
		if item.Kind != "story" {
			continue
		}
		st, err := m.store.GetStory(item.ID)
		if err != nil {
			continue
		}
		st.Status = model.StoryReady
		st.UpdatedAt = time.Now().UTC()
		_ = m.store.PutStory(st)
	}
	return sp, nil
}

func eligibleBacklogStories(m *Manager) []model.Story {
	var out []model.Story
	for _, st := range m.store.ListStories() {
		if st.Status == model.StoryBacklog && st.StoryPoints != 0 {
			out = append(out, st)
		}
	}
	return out
}

// StartSprint transitions a Planned sprint to Active, rejecting if
// another sprint is already Active (the single process-wide invariant
// of spec §5).
func (m *Manager) StartSprint(sprintID string) (model.Sprint, error) {
	if _, active := m.store.ActiveSprint(); active {
		return model.Sprint{}, xerrors.Conflict("another sprint is already Active")
	}
	sp, err := m.store.GetSprint(sprintID)
	if err != nil {
		return model.Sprint{}, err
	}
	if sp.Status != model.SprintPlanned {
		return model.Sprint{}, xerrors.Conflict("sprint %s is %s, not Planned", sprintID, sp.Status)
	}
	now := time.Now().UTC()
	end := now.AddDate(0, 0, sp.DurationDays)
	sp.Status = model.SprintActive
	sp.StartDate = &now
	sp.EndDate = &end
	if err := m.store.PutSprint(sp); err != nil {
		return model.Sprint{}, err
	}
	return sp, nil
}

// CompleteSprint transitions unfinished committed items back to
// Backlog (preserving their estimates) and writes the final burndown
// point.
func (m *Manager) CompleteSprint(sprintID, retrospective string) (model.Sprint, error) {
	sp, err := m.store.GetSprint(sprintID)
	if err != nil {
		return model.Sprint{}, err
	}
	if sp.Status != model.SprintActive {
		return model.Sprint{}, xerrors.Conflict("sprint %s is %s, not Active", sprintID, sp.Status)
	}

	remaining := 0
	for _, item := range sp.CommittedItems {
		switch item.Kind {
		case "story":
			st, err := m.store.GetStory(item.ID)
			if err != nil {
				continue
			}
			if st.Status != model.StoryDone {
				st.Status = model.StoryBacklog
				st.UpdatedAt = time.Now().UTC()
				_ = m.store.PutStory(st)
				remaining += st.StoryPoints
			}
		case "bug":
			b, err := m.store.GetBug(item.ID)
			if err != nil {
				continue
			}
			if b.Status != model.BugClosed {
				b.Status = model.BugOpen
				b.UpdatedAt = time.Now().UTC()
				_ = m.store.PutBug(b)
				remaining += b.StoryPoints
			}
		}
	}

	sp.Status = model.SprintCompleted
	sp.RetrospectiveNotes = retrospective
	sp.Burndown = append(sp.Burndown, model.BurndownPoint{At: time.Now().UTC(), Remaining: remaining})
	if err := m.store.PutSprint(sp); err != nil {
		return model.Sprint{}, err
	}
	return sp, nil
}
