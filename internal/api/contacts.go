package api

import (
	"context"

	"github.com/wolfeidau/mentorhub/internal/cache"
	"github.com/wolfeidau/mentorhub/internal/models"
)

type ContactsArgs struct {
	Type   models.ContactType   `json:"type,omitempty"`
	Status models.ContactStatus `json:"status,omitempty"`
	Page   int                  `json:"page,omitempty"`
	Limit  int                  `json:"limit,omitempty"`
}

type UpdateContactStatusArgs struct {
	ContactID string               `json:"contactId"`
	Status    models.ContactStatus `json:"status"`
	Notes     string               `json:"notes,omitempty"`
}

var GetContacts = Query[ContactsArgs, models.ContactsResponse]{
	Name:     "getContacts",
	Template: "/contacts",
	Path: func(a ContactsArgs) string {
		return withQuery("/contacts", params{}.
			str("type", string(a.Type)).
			str("status", string(a.Status)).
			int("page", a.Page).
			int("limit", a.Limit))
	},
	Provides: func(_ ContactsArgs, res *models.ContactsResponse) []cache.Tag {
		tags := []cache.Tag{cache.ListTag(TagContact)}
		if res != nil {
			for _, c := range res.Contacts {
				tags = append(tags, cache.IDTag(TagContact, c.ID))
			}
		}
		return tags
	},
}

var GetContact = Query[string, models.ContactResponse]{
	Name:     "getContact",
	Template: "/contacts/{id}",
	Path:     func(id string) string { return pathf("/contacts/%s", id) },
	Provides: func(id string, _ *models.ContactResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagContact, id)}
	},
}

var UpdateContactStatus = Mutation[UpdateContactStatusArgs, models.ContactResponse]{
	Name:     "updateContactStatus",
	Template: "/contacts/{id}/status",
	Path: func(a UpdateContactStatusArgs) string {
		return pathf("/contacts/%s/status", a.ContactID)
	},
	Body: func(a UpdateContactStatusArgs) any {
		return struct {
			Status models.ContactStatus `json:"status"`
			Notes  string               `json:"notes,omitempty"`
		}{a.Status, a.Notes}
	},
	Validate: func(a UpdateContactStatusArgs) error {
		if err := required("contactId", a.ContactID); err != nil {
			return err
		}
		if !a.Status.Valid() {
			return invalid("status", "must be one of new, in_progress, resolved, closed")
		}
		return nil
	},
	Invalidates: func(a UpdateContactStatusArgs, _ *models.ContactResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagContact, a.ContactID), cache.ListTag(TagContact)}
	},
}

var DeleteContact = Mutation[string, models.ContactResponse]{
	Name:     "deleteContact",
	Template: "/contacts/{id}/delete",
	Path:     func(id string) string { return pathf("/contacts/%s/delete", id) },
	Validate: func(id string) error { return required("contactId", id) },
	Invalidates: func(id string, _ *models.ContactResponse) []cache.Tag {
		return []cache.Tag{cache.IDTag(TagContact, id), cache.ListTag(TagContact)}
	},
}

func (a *API) GetContacts(ctx context.Context, args ContactsArgs) (*models.ContactsResponse, error) {
	return RunQuery(ctx, a, GetContacts, args)
}

func (a *API) GetContact(ctx context.Context, contactID string) (*models.ContactResponse, error) {
	return RunQuery(ctx, a, GetContact, contactID)
}

func (a *API) UpdateContactStatus(ctx context.Context, args UpdateContactStatusArgs) (*models.ContactResponse, error) {
	return RunMutation(ctx, a, UpdateContactStatus, args)
}

func (a *API) DeleteContact(ctx context.Context, contactID string) (*models.ContactResponse, error) {
	return RunMutation(ctx, a, DeleteContact, contactID)
}
