package app

// UploadPolicy decides who may add files to a room. The reference
// deployment changed its mind on this over time, so it is a policy,
// not a hardcoded rule.
type UploadPolicy interface {
	CanUpload(isHost bool) bool
}

// OpenUploads lets any bound connection upload (the current default).
type OpenUploads struct{}

func (OpenUploads) CanUpload(bool) bool { return true }

// HostOnlyUploads restricts uploads to the room host.
type HostOnlyUploads struct{}

func (HostOnlyUploads) CanUpload(isHost bool) bool { return isHost }
