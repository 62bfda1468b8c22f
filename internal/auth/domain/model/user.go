package model

import (
	"time"

	membership "aura-backend/internal/membership/domain/model"
)

// User is a registered account. The same document carries the user's chat
// and event membership maps, maintained by the membership fan-out.
type User struct {
	ID          string                      `json:"id" bson:"_id"`
	PhoneNo     string                      `json:"phoneNo" bson:"phoneNo"`
	CountryCode string                      `json:"countryCode" bson:"countryCode"`
	Name        string                      `json:"name" bson:"name"`
	Sex         string                      `json:"sex" bson:"sex"`
	Avatar      *string                     `json:"avatar" bson:"avatar"`
	AuraCoins   int                         `json:"auraCoins" bson:"auraCoins"`
	Token       string                      `json:"token,omitempty" bson:"token,omitempty"`
	Chats       map[string]membership.Entry `json:"chats,omitempty" bson:"chats,omitempty"`
	Events      map[string]membership.Entry `json:"events,omitempty" bson:"events,omitempty"`
	CreateAt    time.Time                   `json:"createAt" bson:"createAt"`
	UpdateAt    *time.Time                  `json:"updateAt,omitempty" bson:"updateAt,omitempty"`
}

// Profile is the editable part of a user.
type Profile struct {
	Name   string  `json:"name" bson:"name"`
	Sex    string  `json:"sex" bson:"sex"`
	Avatar *string `json:"avatar" bson:"avatar"`
}

// Public strips the session token before the user is shown to anyone but its owner.
func (u *User) Public() *User {
	cp := *u
	cp.Token = ""
	return &cp
}
