package dto

// RegisterReq は /register エンドポイントのリクエストボディです。
// Role は任意で、省略時は "user" になります。
type RegisterReq struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,max=72"`
	Role     string `json:"role" form:"role" binding:"omitempty,oneof=user admin"`
}
