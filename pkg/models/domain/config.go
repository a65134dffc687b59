package domain

import "fmt"

// ConfigProfile names a section of the session file.
type ConfigProfile struct {
	Name   string
	APIURL string
}

func (c ConfigProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.APIURL)
}
