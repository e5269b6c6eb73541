package redis

const (
	// KeyPrefixLink is the prefix for link keys
	KeyPrefixLink = "links:link:"
	// KeyPrefixGroup is the prefix for group keys
	KeyPrefixGroup = "links:group:"
	// KeyPrefixDetail is the prefix for cached link details
	KeyPrefixDetail = "links:detail:"
	// KeyAllLinks is the key for the set of all link names
	KeyAllLinks = "links:links:all"
	// KeyAllGroups is the key for the set of all group names
	KeyAllGroups = "links:groups:all"
)

// LinkKey returns the Redis key for a link by name
func LinkKey(name string) string {
	return KeyPrefixLink + name
}

// GroupKey returns the Redis key for a group by name
func GroupKey(name string) string {
	return KeyPrefixGroup + name
}

// DetailKey returns the Redis key for the cached detail of a URL
func DetailKey(url string) string {
	return KeyPrefixDetail + url
}

// AllLinksKey returns the key for the set of all link names
func AllLinksKey() string {
	return KeyAllLinks
}

// AllGroupsKey returns the key for the set of all group names
func AllGroupsKey() string {
	return KeyAllGroups
}
