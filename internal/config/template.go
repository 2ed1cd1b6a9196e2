package config

// Template is written by `todo-tabs init`.
const Template = `# todo-tabs configuration
# Location: ~/.config/todo-tabs/config.yaml

storage:
  # Where lists and tasks live: "file" (YAML document), "sqlite" or "memory"
  backend: file
  # Defaults to ~/.local/share/todo-tabs/todo.yaml (or todo.db for sqlite)
  # path: ""

ui:
  # Enable Vim-style keybindings (default: true)
  vim_mode: true
  # Desktop notification when every task in a list is checked
  notify_on_complete: true

log:
  # debug, info, warn or error
  level: info
  # Defaults to ~/.local/share/todo-tabs/debug.log
  # file: ""
`
