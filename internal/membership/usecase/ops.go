package usecase

import (
	"fmt"
	"time"

	"aura-backend/internal/membership/domain/model"
	apperrors "aura-backend/internal/shared/errors"
)

// Op is a mutation applied to every participant's entry of a group.
type Op interface {
	// Name labels the op in logs and metrics.
	Name() string
	// involved lists every user whose document must be loaded.
	involved(m Mutation) []string
	// plan validates the loaded documents and returns one patch per write.
	plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error)
}

// Create gives every participant a fresh entry for a new group.
type Create struct {
	Template model.Entry
}

// Update changes shared metadata. Nil fields are left alone.
type Update struct {
	GroupName   *string
	GroupAvatar *string
}

// Delete removes the group from every participant.
type Delete struct{}

// AddMember appends UserID to the group.
type AddMember struct {
	UserID string
}

// KickMember removes UserID from the remaining members' participant lists.
// The kicked user's own entry is left as it was unless PurgeKicked is set.
type KickMember struct {
	UserID      string
	PurgeKicked bool
}

// PostMessage records the latest message on every participant's entry. The
// sender's unread count is reset and everyone else's is incremented.
type PostMessage struct {
	Text         string
	SenderName   string
	SenderAvatar string
	At           time.Time
}

// MarkRead resets the actor's unread count.
type MarkRead struct{}

// ReplaceMembers moves the group to a new participant list: leavers lose the
// entry, joiners get a fresh one and stayers get the new list and metadata.
type ReplaceMembers struct {
	NewParticipantIDs []string
	Template          model.Entry
}

// Project rewrites every participant's entry from the authoritative record.
// Per-user unread counts survive. Users in Purge lose the entry.
type Project struct {
	Entry model.Entry
	Purge []string
}

func (Create) Name() string         { return "create" }
func (Update) Name() string         { return "update" }
func (Delete) Name() string         { return "delete" }
func (AddMember) Name() string      { return "add_member" }
func (KickMember) Name() string     { return "kick_member" }
func (PostMessage) Name() string    { return "post_message" }
func (MarkRead) Name() string       { return "mark_read" }
func (ReplaceMembers) Name() string { return "replace_members" }
func (Project) Name() string        { return "project" }

func (Create) involved(m Mutation) []string      { return m.ParticipantIDs }
func (Update) involved(m Mutation) []string      { return m.ParticipantIDs }
func (Delete) involved(m Mutation) []string      { return m.ParticipantIDs }
func (KickMember) involved(m Mutation) []string  { return m.ParticipantIDs }
func (PostMessage) involved(m Mutation) []string { return m.ParticipantIDs }
func (MarkRead) involved(m Mutation) []string    { return []string{m.ActorID} }

func (o AddMember) involved(m Mutation) []string {
	return append(append([]string(nil), m.ParticipantIDs...), o.UserID)
}

func (o ReplaceMembers) involved(m Mutation) []string {
	return model.Dedupe(append(append([]string(nil), m.ParticipantIDs...), o.NewParticipantIDs...))
}

func (o Project) involved(m Mutation) []string {
	return model.Dedupe(append(append([]string(nil), m.ParticipantIDs...), o.Purge...))
}

func groupNotFound(m Mutation) *apperrors.AppError {
	label := "Chat"
	if m.Kind == model.KindEvent {
		label = "Event"
	}
	return apperrors.NewPreconditionError(fmt.Sprintf("%s %s does not exist", label, m.GroupID))
}

// requireEntries fails unless every id already holds the group.
func requireEntries(m Mutation, members map[string]*model.Member, ids []string) error {
	for _, id := range ids {
		if _, ok := members[id].Entry(m.Kind, m.GroupID); !ok {
			return groupNotFound(m).WithDetail("userId", id)
		}
	}
	return nil
}

func (o Create) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	patches := make([]model.Patch, 0, len(m.ParticipantIDs))
	for _, id := range m.ParticipantIDs {
		entry := o.Template
		entry.ID = m.GroupID
		entry.ParticipantIDs = append([]string(nil), m.ParticipantIDs...)
		entry.UnreadCount = 0
		patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchPut, Entry: &entry})
	}
	return patches, nil
}

func (o Update) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	if err := requireEntries(m, members, m.ParticipantIDs); err != nil {
		return nil, err
	}
	set := make(map[string]interface{})
	if o.GroupName != nil {
		set[model.FieldGroupName] = *o.GroupName
	}
	if o.GroupAvatar != nil {
		set[model.FieldGroupAvatar] = *o.GroupAvatar
	}
	if len(set) == 0 {
		return nil, nil
	}
	patches := make([]model.Patch, 0, len(m.ParticipantIDs))
	for _, id := range m.ParticipantIDs {
		patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchUpdate, Set: set})
	}
	return patches, nil
}

func (Delete) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	if err := requireEntries(m, members, m.ParticipantIDs); err != nil {
		return nil, err
	}
	patches := make([]model.Patch, 0, len(m.ParticipantIDs))
	for _, id := range m.ParticipantIDs {
		patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchRemove})
	}
	return patches, nil
}

func (o AddMember) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	if o.UserID == "" {
		return nil, apperrors.NewValidationError("added user id is required")
	}
	if model.Contains(m.ParticipantIDs, o.UserID) {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("User %s already in the chat", o.UserID))
	}
	if err := requireEntries(m, members, m.ParticipantIDs); err != nil {
		return nil, err
	}
	if _, ok := members[o.UserID].Entry(m.Kind, m.GroupID); ok {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("User %s already in the chat", o.UserID))
	}

	// Seed the newcomer's entry from an existing member's copy so shared
	// metadata carries over; unread state does not.
	var seed model.Entry
	if len(m.ParticipantIDs) > 0 {
		seed, _ = members[m.ParticipantIDs[0]].Entry(m.Kind, m.GroupID)
	}
	entry := model.Entry{
		ID:             m.GroupID,
		ParticipantIDs: append(append([]string(nil), m.ParticipantIDs...), o.UserID),
		GroupName:      seed.GroupName,
		GroupAvatar:    seed.GroupAvatar,
	}

	patches := []model.Patch{{UserID: o.UserID, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchPut, Entry: &entry}}
	for _, id := range m.ParticipantIDs {
		patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchUpdate, AddParticipant: o.UserID})
	}
	return patches, nil
}

func (o KickMember) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	if !model.Contains(m.ParticipantIDs, o.UserID) {
		return nil, apperrors.NewPreconditionError(fmt.Sprintf("User %s is not in the chat", o.UserID))
	}
	if err := requireEntries(m, members, m.ParticipantIDs); err != nil {
		return nil, err
	}
	remaining := model.Without(m.ParticipantIDs, o.UserID)
	patches := make([]model.Patch, 0, len(m.ParticipantIDs))
	for _, id := range remaining {
		patches = append(patches, model.Patch{
			UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchUpdate,
			Set: map[string]interface{}{model.FieldParticipantIDs: remaining},
		})
	}
	if o.PurgeKicked {
		patches = append(patches, model.Patch{UserID: o.UserID, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchRemove})
	}
	return patches, nil
}

func (o PostMessage) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	if err := requireEntries(m, members, m.ParticipantIDs); err != nil {
		return nil, err
	}
	at := o.At.UTC()
	shared := map[string]interface{}{
		model.FieldLastMessage:     o.Text,
		model.FieldLastMessageTime: at,
		model.FieldSenderID:        m.ActorID,
		model.FieldSenderName:      o.SenderName,
		model.FieldSenderAvatar:    o.SenderAvatar,
	}

	patches := make([]model.Patch, 0, len(m.ParticipantIDs))
	for _, id := range m.ParticipantIDs {
		p := model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchUpdate}
		if id == m.ActorID {
			set := make(map[string]interface{}, len(shared)+1)
			for k, v := range shared {
				set[k] = v
			}
			set[model.FieldUnreadCount] = 0
			p.Set = set
		} else {
			p.Set = shared
			p.Inc = map[string]int{model.FieldUnreadCount: 1}
		}
		patches = append(patches, p)
	}
	return patches, nil
}

func (MarkRead) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	if err := requireEntries(m, members, []string{m.ActorID}); err != nil {
		return nil, err
	}
	return []model.Patch{{
		UserID: m.ActorID, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchUpdate,
		Set: map[string]interface{}{model.FieldUnreadCount: 0},
	}}, nil
}

func (o ReplaceMembers) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	next := model.Dedupe(o.NewParticipantIDs)
	if len(next) == 0 {
		return nil, apperrors.NewValidationError("participant list cannot be empty")
	}
	if err := requireEntries(m, members, m.ParticipantIDs); err != nil {
		return nil, err
	}

	var patches []model.Patch
	for _, id := range m.ParticipantIDs {
		if !model.Contains(next, id) {
			patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchRemove})
		}
	}
	for _, id := range next {
		if model.Contains(m.ParticipantIDs, id) {
			set := map[string]interface{}{model.FieldParticipantIDs: next}
			if o.Template.GroupName != "" {
				set[model.FieldGroupName] = o.Template.GroupName
			}
			if o.Template.GroupAvatar != "" {
				set[model.FieldGroupAvatar] = o.Template.GroupAvatar
			}
			patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchUpdate, Set: set})
			continue
		}
		entry := o.Template
		entry.ID = m.GroupID
		entry.ParticipantIDs = next
		entry.UnreadCount = 0
		patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchPut, Entry: &entry})
	}
	return patches, nil
}

func (o Project) plan(m Mutation, members map[string]*model.Member) ([]model.Patch, error) {
	patches := make([]model.Patch, 0, len(m.ParticipantIDs)+len(o.Purge))
	for _, id := range m.ParticipantIDs {
		entry := o.Entry
		entry.ID = m.GroupID
		entry.ParticipantIDs = append([]string(nil), m.ParticipantIDs...)
		entry.UnreadCount = 0
		if current, ok := members[id].Entry(m.Kind, m.GroupID); ok {
			entry.UnreadCount = current.UnreadCount
		}
		patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchPut, Entry: &entry})
	}
	for _, id := range o.Purge {
		if model.Contains(m.ParticipantIDs, id) {
			continue
		}
		if _, ok := members[id].Entry(m.Kind, m.GroupID); ok {
			patches = append(patches, model.Patch{UserID: id, Kind: m.Kind, GroupID: m.GroupID, Action: model.PatchRemove})
		}
	}
	return patches, nil
}
