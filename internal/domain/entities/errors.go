package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrMeetingAlreadyExists = errors.New("meeting already exists")
	ErrInvalidMeetingStatus = errors.New("invalid meeting status")

	// Transcript errors
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrEmptyTranscript    = errors.New("transcript is empty")

	// Job errors
	ErrJobNotFound      = errors.New("job not found")
	ErrJobAlreadyActive = errors.New("meeting already has an active job")
	ErrJobNotClaimable  = errors.New("job is not claimable")

	// Prompt errors
	ErrPromptNotFound = errors.New("prompt template not found")
	ErrInvalidPrompt  = errors.New("invalid prompt template")
)
