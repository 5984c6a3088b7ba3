package services

import (
	"github.com/google/uuid"
	"github.com/hksdtp/retail-sales-pulse-ios-sub001/internal/models"
)

// Directory is a pre-indexed snapshot of the user and team rosters, built
// once per filter pass so the creator→department join is a map lookup
// instead of a linear scan.
type Directory struct {
	usersByID     map[uuid.UUID]models.User
	teamsByID     map[uuid.UUID]models.Team
	teamsByLeader map[uuid.UUID][]uuid.UUID
}

func NewDirectory(users []models.User, teams []models.Team) *Directory {
	d := &Directory{
		usersByID:     make(map[uuid.UUID]models.User, len(users)),
		teamsByID:     make(map[uuid.UUID]models.Team, len(teams)),
		teamsByLeader: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, u := range users {
		d.usersByID[u.ID] = u
	}
	for _, t := range teams {
		d.teamsByID[t.ID] = t
		d.teamsByLeader[t.LeaderID] = append(d.teamsByLeader[t.LeaderID], t.ID)
	}
	return d
}

func (d *Directory) User(id uuid.UUID) (models.User, bool) {
	u, ok := d.usersByID[id]
	return u, ok
}

func (d *Directory) Users() []models.User {
	out := make([]models.User, 0, len(d.usersByID))
	for _, u := range d.usersByID {
		out = append(out, u)
	}
	return out
}

// LedTeams returns the ids of teams the given user leads.
func (d *Directory) LedTeams(leaderID uuid.UUID) []uuid.UUID {
	return d.teamsByLeader[leaderID]
}

func (d *Directory) department(userID uuid.UUID) string {
	if u, ok := d.usersByID[userID]; ok {
		return u.DepartmentType
	}
	return ""
}

func (d *Directory) userTeam(userID uuid.UUID) *uuid.UUID {
	if u, ok := d.usersByID[userID]; ok {
		return u.TeamID
	}
	return nil
}

func (d *Directory) isAdminOrDirector(userID uuid.UUID) bool {
	u, ok := d.usersByID[userID]
	if !ok {
		return false
	}
	return u.Role == models.RoleAdmin || u.IsDirector()
}

// VisibleTasks restricts a raw task collection to what the acting user may
// see. Pure and deterministic: same inputs, same subset. A nil actor yields
// the empty set (fail-closed).
func VisibleTasks(tasks []models.Task, actor *models.User, dir *Directory, adminIDs map[uuid.UUID]bool) []models.Task {
	if actor == nil {
		return []models.Task{}
	}

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if taskVisibleTo(t, actor, dir, adminIDs) {
			out = append(out, t)
		}
	}
	return out
}

// taskVisibleTo evaluates the visibility clauses as an OR: any match grants
// access, no match denies it.
func taskVisibleTo(t models.Task, actor *models.User, dir *Directory, adminIDs map[uuid.UUID]bool) bool {
	// Ownership: assignee or creator.
	if t.AssignedTo == actor.ID || t.UserID == actor.ID {
		return true
	}

	// Administrative override.
	if adminIDs[actor.ID] || actor.Role == models.RoleAdmin {
		return true
	}

	switch {
	case actor.IsDirector():
		return directorCanSee(t, actor, dir)
	case actor.IsTeamLeader():
		return teamLeaderCanSee(t, actor, dir)
	default:
		return employeeCanSee(t, actor, dir)
	}
}

// directorCanSee grants directors the tasks of their own department,
// resolved through both the creator and the assignee.
func directorCanSee(t models.Task, actor *models.User, dir *Directory) bool {
	if actor.DepartmentType == "" {
		return false
	}
	if dir.department(t.UserID) == actor.DepartmentType {
		return true
	}
	return dir.department(t.AssignedTo) == actor.DepartmentType
}

func teamLeaderCanSee(t models.Task, actor *models.User, dir *Directory) bool {
	led := dir.LedTeams(actor.ID)

	// Task filed directly under a led team.
	if t.TeamID != nil {
		for _, teamID := range led {
			if *t.TeamID == teamID {
				return true
			}
		}
	}

	// Task assigned to or created by a member of a led team.
	for _, memberOf := range []*uuid.UUID{dir.userTeam(t.AssignedTo), dir.userTeam(t.UserID)} {
		if memberOf == nil {
			continue
		}
		for _, teamID := range led {
			if *memberOf == teamID {
				return true
			}
		}
	}

	// Task handed down by an admin to this leader.
	if creator, ok := dir.User(t.UserID); ok && creator.Role == models.RoleAdmin && t.AssignedTo == actor.ID {
		return true
	}

	return t.HasExtraAssignee(actor.ID)
}

func employeeCanSee(t models.Task, actor *models.User, dir *Directory) bool {
	// Explicitly shared by an admin or director.
	if t.IsShared && dir.isAdminOrDirector(t.UserID) {
		return true
	}

	// Own-team tasks, when shared with the team or addressed to this user.
	if actor.TeamID != nil && t.TeamID != nil && *t.TeamID == *actor.TeamID {
		if t.IsSharedWithTeam || t.AssignedTo == actor.ID || t.HasExtraAssignee(actor.ID) {
			return true
		}
	}

	return t.HasExtraAssignee(actor.ID)
}
