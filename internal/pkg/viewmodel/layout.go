package viewmodel

import "github.com/gofiber/fiber/v2"

type Layout struct {
	Page          string
	FromProtected bool
	IsError       bool
	Msg           fiber.Map
	Username      string
	IsAdmin       bool
	CsrfToken     string
	City          *CityRef
	Cities        []CityRef
	FooterPages   []PageLink
	OGViewModel   *OpenGraph
}

// OpenGraph holds the social preview tags of a page
type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Image       string
}

type CityRef struct {
	Name       string
	Slug       string
	RegionCode string
}

type PageLink struct {
	Title string
	Slug  string
}
