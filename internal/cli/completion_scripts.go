package cli

var completionScripts = map[string]string{
	"bash": bashCompletionScript,
	"zsh":  zshCompletionScript,
	"fish": fishCompletionScript,
}

const bashCompletionScript = `# bash completion for engine-rpc
_engine_rpc_schema_flags() {
  local i
  for ((i=1; i<COMP_CWORD; i++)); do
    case "${COMP_WORDS[i]}" in
      --proto|--service|--import-path)
        printf '%s %s ' "${COMP_WORDS[i]}" "${COMP_WORDS[i+1]}"
        ;;
    esac
  done
}

_engine_rpc_completion() {
  local cur prev words
  COMPREPLY=()
  cur="${COMP_WORDS[COMP_CWORD]}"
  prev="${COMP_WORDS[COMP_CWORD-1]}"

  if [[ ${COMP_CWORD} -eq 1 && "$cur" != -* ]]; then
    COMPREPLY=( $(compgen -W "completion config" -- "$cur") )
    return 0
  fi

  case "${COMP_WORDS[1]}" in
    completion)
      COMPREPLY=( $(compgen -W "bash zsh fish" -- "$cur") )
      return 0
      ;;
    config)
      COMPREPLY=( $(compgen -W "path init show --force" -- "$cur") )
      return 0
      ;;
  esac

  case "$prev" in
    -d|--description|-e|--exe)
      words="$(engine-rpc __complete methods $(_engine_rpc_schema_flags) 2>/dev/null)"
      COMPREPLY=( $(compgen -W "$words" -- "$cur") )
      return 0
      ;;
    -f|--file|--proto)
      COMPREPLY=( $(compgen -f -- "$cur") )
      return 0
      ;;
    --import-path)
      COMPREPLY=( $(compgen -d -- "$cur") )
      return 0
      ;;
    --color)
      COMPREPLY=( $(compgen -W "auto always never" -- "$cur") )
      return 0
      ;;
    -p|--port|-i|--ip|-a|--args|--timeout|--log-level|--service)
      return 0
      ;;
  esac

  words="$(engine-rpc __complete flags 2>/dev/null)"
  COMPREPLY=( $(compgen -W "$words" -- "$cur") )
}
complete -F _engine_rpc_completion engine-rpc
`

const zshCompletionScript = `#compdef engine-rpc
_engine_rpc_schema_flags() {
  local i
  for (( i = 2; i < CURRENT; i++ )); do
    case "${words[i]}" in
      --proto|--service|--import-path)
        print -r -- "${words[i]}" "${words[i+1]}"
        ;;
    esac
  done
}

_engine_rpc_completion() {
  local -a methods flags

  if (( CURRENT == 2 )) && [[ "${words[2]}" != -* ]]; then
    _values 'command' completion config
    return
  fi

  case "${words[2]}" in
    completion)
      _values 'shell' bash zsh fish
      return
      ;;
    config)
      _values 'config command' path init show --force
      return
      ;;
  esac

  case "${words[CURRENT-1]}" in
    -d|--description|-e|--exe)
      methods=(${(f)"$(engine-rpc __complete methods ${=$(_engine_rpc_schema_flags)} 2>/dev/null)"})
      _describe 'method' methods
      return
      ;;
    -f|--file|--proto)
      _files
      return
      ;;
    --import-path)
      _files -/
      return
      ;;
    --color)
      _values 'color mode' auto always never
      return
      ;;
    -p|--port|-i|--ip|-a|--args|--timeout|--log-level|--service)
      return
      ;;
  esac

  flags=(${(f)"$(engine-rpc __complete flags 2>/dev/null)"})
  _describe 'flag' flags
}
compdef _engine_rpc_completion engine-rpc
`

const fishCompletionScript = `function __engine_rpc_words
    commandline -opc
end

function __engine_rpc_prev_is
    set -l w (__engine_rpc_words)
    contains -- $w[-1] $argv
end

function __engine_rpc_schema_flags
    set -l w (__engine_rpc_words)
    for i in (seq 2 (math (count $w) - 1))
        switch $w[$i]
            case --proto --service --import-path
                echo $w[$i]
                echo $w[(math $i + 1)]
        end
    end
end

complete -c engine-rpc -f
complete -c engine-rpc -n 'test (count (__engine_rpc_words)) -eq 1' -a "completion config"
complete -c engine-rpc -n 'set -l w (__engine_rpc_words); test (count $w) -eq 2; and test "$w[2]" = completion' -a "bash zsh fish"
complete -c engine-rpc -n 'set -l w (__engine_rpc_words); test (count $w) -ge 2; and test "$w[2]" = config' -a "path init show --force"
complete -c engine-rpc -n '__engine_rpc_prev_is -d --description -e --exe' -a "(engine-rpc __complete methods (__engine_rpc_schema_flags) 2>/dev/null)"
complete -c engine-rpc -n '__engine_rpc_prev_is -f --file --proto' -F
complete -c engine-rpc -n '__engine_rpc_prev_is --import-path' -a "(__fish_complete_directories)"
complete -c engine-rpc -n '__engine_rpc_prev_is --color' -a "auto always never"
complete -c engine-rpc -s l -l list -d 'List methods'
complete -c engine-rpc -s h -l help -d 'Show help'
complete -c engine-rpc -s d -l description -r -d 'Describe a method'
complete -c engine-rpc -s e -l exe -r -d 'Invoke a method'
complete -c engine-rpc -s p -l port -r -d 'Engine port'
complete -c engine-rpc -s i -l ip -r -d 'Engine host'
complete -c engine-rpc -s a -l args -r -d 'Inline JSON payload'
complete -c engine-rpc -s f -l file -r -d 'JSON payload file'
complete -c engine-rpc -s v -l verbose -d 'Print Success on empty responses'
complete -c engine-rpc -l json -d 'JSON output'
complete -c engine-rpc -l timeout -r -d 'Call deadline'
complete -c engine-rpc -l proto -r -d '.proto file'
complete -c engine-rpc -l service -r -d 'Service in --proto'
complete -c engine-rpc -l import-path -r -d '.proto import directory'
complete -c engine-rpc -l color -r -d 'auto, always or never'
complete -c engine-rpc -l log-level -r -d 'Log verbosity'
complete -c engine-rpc -l version -d 'Show version'
`
