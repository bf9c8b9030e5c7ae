package pages

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// 用户页面模板：固定的个人页外壳，只替换用户名
// 专辑列表与搜索框由前端脚本通过 API 填充
const userPageTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>VinylVault</title>
    <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css" rel="stylesheet">
    <link href="/static/styles.css" rel="stylesheet">
    <link href="https://fonts.googleapis.com/css2?family=Barlow:wght@400&display=swap" rel="stylesheet">
</head>

<body>

<div class="container" style="height: 54px">
<nav class="navbar navbar-expand-sm navbar-dark bg-dark fixed-top">
    <div class="container-fluid">
        <a class="navbar-brand" href="/welcome" style="padding-top: 0">
            <img src="/static/data/other/VVlogo_solo_cr.png" alt="VinylVault Logo" style="width:200px; height:30px;" class="rounded-3">
        </a>
        <div class="collapse navbar-collapse justify-content-end" id="mynavbar">
            <form class="d-flex">
                <a class="btn btn-danger me-2" type="button">My profile</a>
            </form>
        </div>
    </div>
</nav>
</div>

<div class="container-fluid position-relative d-flex justify-content-center" style="background-color: black; height: 100px;">
    <img src="/static/data/avatars/avatar1.jpg" alt="User Avatar"
         class="rounded-circle position-absolute"
         style="width: 150px; height: 150px; bottom: 0; transform: translateY(50%);">
    <span class="font-family: Barlow text-white position-absolute" style="bottom: 5px; margin-left: 250px; z-index: 1;">{{.Username}}</span>
</div>

<div class="container my-4 pt-5">
    <h2 class="text-center text-danger" style="font-family: Barlow;">Top Albums</h2>

    <div class="mb-3 position-relative">
        <div class="d-flex align-items-center">
            <div class="position-relative flex-grow-1">
                <input type="text" id="album-search" class="form-control" placeholder="Album name" />
                <div id="dropdown-menu" class="dropdown-menu w-100" style="display: none; position: absolute; top: 100%; left: 0;"></div>
            </div>
            <button id="search-album-btn" class="btn ms-2 text-bg-danger" style="white-space: nowrap;">Search</button>
        </div>
    </div>

    <div>
        <ul id="album-list" class="row list-unstyled g-3"></ul>
    </div>
</div>

<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/js/bootstrap.bundle.min.js"></script>
<script src="/static/script.js"></script>

</body>
</html>
`

// Generator 用户页面生成器 - 渲染模板并写入磁盘
type Generator struct {
	dir  string
	tmpl *template.Template
}

// NewGenerator 创建新的页面生成器，dir 为用户页面目录
func NewGenerator(dir string) (*Generator, error) {
	tmpl, err := template.New("user_page").Parse(userPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user page template: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user pages directory: %w", err)
	}
	return &Generator{dir: dir, tmpl: tmpl}, nil
}

// PagePath 返回用户页面的磁盘路径
func (g *Generator) PagePath(userID string) string {
	return filepath.Join(g.dir, userID+".html")
}

// Generate 渲染用户页面并写入磁盘，已存在时覆盖
func (g *Generator) Generate(userID, username string) error {
	f, err := os.Create(g.PagePath(userID))
	if err != nil {
		return fmt.Errorf("failed to create user page: %w", err)
	}
	defer f.Close()

	if err := g.tmpl.Execute(f, struct{ Username string }{Username: username}); err != nil {
		return fmt.Errorf("failed to render user page: %w", err)
	}
	return nil
}

// Exists 检查用户页面文件是否已生成
func (g *Generator) Exists(userID string) bool {
	_, err := os.Stat(g.PagePath(userID))
	return err == nil
}
