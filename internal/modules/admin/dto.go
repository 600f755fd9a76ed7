package admin

type VanOwnerStatusRequest struct {
	IsVanOwner *bool `json:"isVanOwner" binding:"required"`
}

type AdminStatusRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"`
}
