package modules

import (
	"bytemomo/harpoon/internal/modules/banner"
	"bytemomo/harpoon/internal/modules/ftp"
	"bytemomo/harpoon/internal/modules/smb"
	"bytemomo/harpoon/internal/modules/ssh"
	"bytemomo/harpoon/internal/modules/web"
)

// Init registers the builtin modules. Registration order is selection order,
// so the fallback banner grab goes last.
func Init() {
	ssh.Init()
	ftp.Init()
	web.Init()
	smb.Init()
	banner.Init()
}
