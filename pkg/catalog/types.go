package catalog

import "strconv"

// Default paging used by the collection view.
const (
	DefaultPage     = 0
	DefaultPageSize = 10
)

// UnknownUserName is shown when the backend knows a user but has no name
// for them.
const UnknownUserName = "Unknown User"

// Item is one concert in a user's collection.
type Item struct {
	ConcertID   int64  `json:"concertId" bson:"concertId"`
	Name        string `json:"name" bson:"name"`
	Img         string `json:"img,omitempty" bson:"img,omitempty"`
	ConcertDate string `json:"concertDate,omitempty" bson:"concertDate,omitempty"`
	StartTime   string `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty" bson:"endTime,omitempty"`
	TicketPrice string `json:"ticketPrice,omitempty" bson:"ticketPrice,omitempty"`
	PeopleScale string `json:"peopleScale,omitempty" bson:"peopleScale,omitempty"`
	ArtistName  string `json:"artistName,omitempty" bson:"artistName,omitempty"`
}

// ID returns the stable card id of the item.
func (i Item) ID() string {
	return strconv.FormatInt(i.ConcertID, 10)
}

// Page is the backend's pagination envelope.
type Page struct {
	Content          []Item `json:"content"`
	Number           int    `json:"number"`
	Size             int    `json:"size"`
	TotalPages       int    `json:"totalPages"`
	TotalElements    int64  `json:"totalElements"`
	NumberOfElements int    `json:"numberOfElements"`
	First            bool   `json:"first"`
	Last             bool   `json:"last"`
	Empty            bool   `json:"empty"`
}

// NewPage builds the envelope for one slice of a larger result.
func NewPage(content []Item, number, size int, total int64) *Page {
	if content == nil {
		content = []Item{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page{
		Content:          content,
		Number:           number,
		Size:             size,
		TotalPages:       totalPages,
		TotalElements:    total,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             number >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// User is the public profile of a collection owner.
type User struct {
	UserID      int64  `json:"userId" bson:"userId"`
	UserName    string `json:"userName" bson:"userName"`
	DisplayName string `json:"displayName,omitempty" bson:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Tier        string `json:"tier,omitempty" bson:"tier,omitempty"`
}

// Name returns the user's display name, falling back to the user name and
// then to UnknownUserName.
func (u *User) Name() string {
	switch {
	case u == nil:
		return ""
	case u.DisplayName != "":
		return u.DisplayName
	case u.UserName != "":
		return u.UserName
	default:
		return UnknownUserName
	}
}

// Song is an uploaded track that can be attached to a concert.
type Song struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ArtistID int64  `json:"artistId"`
	URL      string `json:"url"`
}

// Concert is the full concert record returned by the edit endpoints.
type Concert struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Img         string `json:"img,omitempty"`
	ConcertDate string `json:"concertDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	TicketPrice string `json:"ticketPrice"`
	PeopleScale string `json:"peopleScale"`
	Songs       []Song `json:"songs"`
}

// ConcertUpdate is the body of a concert update.
type ConcertUpdate struct {
	Name        string  `json:"name"`
	ConcertDate string  `json:"concertDate"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	TicketPrice string  `json:"ticketPrice"`
	PeopleScale string  `json:"peopleScale"`
	SongIDs     []int64 `json:"songIds"`
	Img         string  `json:"img,omitempty"`
}

// UpdateFrom returns the update form pre-filled from an existing concert.
func UpdateFrom(c *Concert) ConcertUpdate {
	ids := make([]int64, 0, len(c.Songs))
	for _, s := range c.Songs {
		ids = append(ids, s.ID)
	}
	return ConcertUpdate{
		Name:        c.Name,
		ConcertDate: c.ConcertDate,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		TicketPrice: c.TicketPrice,
		PeopleScale: c.PeopleScale,
		SongIDs:     ids,
		Img:         c.Img,
	}
}

// WithSong returns a copy of u with id appended, unless already present.
func (u ConcertUpdate) WithSong(id int64) ConcertUpdate {
	for _, s := range u.SongIDs {
		if s == id {
			return u
		}
	}
	u.SongIDs = append(append([]int64(nil), u.SongIDs...), id)
	return u
}

// WithoutSong returns a copy of u with id removed.
func (u ConcertUpdate) WithoutSong(id int64) ConcertUpdate {
	out := make([]int64, 0, len(u.SongIDs))
	for _, s := range u.SongIDs {
		if s != id {
			out = append(out, s)
		}
	}
	u.SongIDs = out
	return u
}
