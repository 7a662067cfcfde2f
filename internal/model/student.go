package model

import "time"

// Student is a community-college student planning a transfer.
type Student struct {
	ID               int       `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Major            string    `json:"major"`
	CommunityCollege string    `json:"community_college"`
	TargetUniversity string    `json:"target_university,omitempty"`
	TargetMajor      string    `json:"target_major,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// EffectiveMajor is the major an evaluation should run against.
func (s *Student) EffectiveMajor() string {
	if s.TargetMajor != "" {
		return s.TargetMajor
	}
	return s.Major
}

// RegisterStudentRequest is the payload for creating a student profile.
type RegisterStudentRequest struct {
	Email            string `json:"email" binding:"required,email,max=254"`
	Name             string `json:"name" binding:"required,min=1,max=100"`
	Major            string `json:"major" binding:"required,max=100"`
	CommunityCollege string `json:"community_college" binding:"required,max=100"`
}

// UpdateStudentRequest is the payload for editing a student profile.
type UpdateStudentRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=100"`
	Major            string `json:"major" binding:"required,max=100"`
	CommunityCollege string `json:"community_college" binding:"required,max=100"`
}

// SelectTargetRequest picks the campus and, optionally, a major other than the
// declared one to evaluate against.
type SelectTargetRequest struct {
	TargetUniversity string `json:"target_university" binding:"required,max=20"`
	TargetMajor      string `json:"target_major" binding:"omitempty,max=100"`
}

// Campus is a transfer destination listed in the catalog directory.
type Campus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}
