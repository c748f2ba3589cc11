package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/weblarek/backend/internal/store"
)

// registerValidators installs the custom binding validations on gin's
// validator engine. "objectid" checks the 24-hex record identity shape, so a
// malformed basket item is rejected at binding time, before the service runs.
//
// registerValidators 在gin的验证引擎上安装自定义绑定校验。"objectid"
// 检查24位十六进制记录标识的形状，使格式错误的购物篮条目在绑定时即被拒绝，
// 早于服务运行。
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return store.ValidID(fl.Field().String())
	})
}
