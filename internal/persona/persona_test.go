package persona

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPersona(t *testing.T) {
	Convey("人设加载", t, func() {
		Convey("内置 system prompt 不为空", func() {
			p := Default()
			So(p.SystemPrompt(), ShouldStartWith, "you are yashaswa varshney")
			So(p.SystemPrompt(), ShouldContainSubstring, "HyperBots")
			So(p.Profile().Skills, ShouldContain, "LangGraph")
		})

		Convey("promptFile 为空时使用内置人设", func() {
			p, err := Load("")
			So(err, ShouldBeNil)
			So(p.SystemPrompt(), ShouldEqual, Default().SystemPrompt())
		})

		Convey("从文件覆盖 system prompt", func() {
			path := filepath.Join(t.TempDir(), "prompt.txt")
			So(os.WriteFile(path, []byte("  you are a pirate  \n"), 0o600), ShouldBeNil)

			p, err := Load(path)
			So(err, ShouldBeNil)
			So(p.SystemPrompt(), ShouldEqual, "you are a pirate")
			So(p.Profile().CurrentRole, ShouldNotBeEmpty)
		})

		Convey("文件不存在或为空时报错", func() {
			_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
			So(err, ShouldNotBeNil)

			empty := filepath.Join(t.TempDir(), "empty.txt")
			So(os.WriteFile(empty, []byte("\n"), 0o600), ShouldBeNil)
			_, err = Load(empty)
			So(err, ShouldNotBeNil)
		})
	})
}
