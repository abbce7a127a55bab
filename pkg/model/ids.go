package model

import "github.com/google/uuid"

// ElementID identifies a single construction element.
type ElementID string

// GroupID identifies a group node in the model tree.
type GroupID string

// IssueID identifies a non-fatal synthesis issue.
type IssueID string

// AreaID identifies a highlighted diagram area.
type AreaID string

// NewElementID returns a fresh random element id.
func NewElementID() ElementID { return ElementID(uuid.NewString()) }

// NewGroupID returns a fresh random group id.
func NewGroupID() GroupID { return GroupID(uuid.NewString()) }

// NewIssueID returns a fresh random issue id.
func NewIssueID() IssueID { return IssueID(uuid.NewString()) }

// NewAreaID returns a fresh random area id.
func NewAreaID() AreaID { return AreaID(uuid.NewString()) }
