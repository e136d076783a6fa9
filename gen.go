package raft

//go:generate mockgen -package bootstrapmock -source internal/bootstrap/types.go -destination internal/mocks/bootstrap/bootstrap.go
//go:generate mockgen -package membershipmock -source internal/membership/types.go -destination internal/mocks/membership/membership.go
